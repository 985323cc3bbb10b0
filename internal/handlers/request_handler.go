package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/repair-desk/internal/domain/ticket"
	"github.com/BruksfildServices01/repair-desk/internal/dto"
	"github.com/BruksfildServices01/repair-desk/internal/httperr"
	"github.com/BruksfildServices01/repair-desk/internal/httpresp"
	"github.com/BruksfildServices01/repair-desk/internal/middleware"
	ucTicket "github.com/BruksfildServices01/repair-desk/internal/usecase/ticket"
)

// ======================================================
// HANDLER
// ======================================================

type RequestHandler struct {
	create  *ucTicket.CreateRequest
	get     *ucTicket.GetRequest
	list    *ucTicket.ListRequests
	update  *ucTicket.UpdateRequest
	del     *ucTicket.DeleteRequest
	comment *ucTicket.AddComment
	upload  *ucTicket.UploadAttachment

	maxUploadBytes int64
}

func NewRequestHandler(
	create *ucTicket.CreateRequest,
	get *ucTicket.GetRequest,
	list *ucTicket.ListRequests,
	update *ucTicket.UpdateRequest,
	del *ucTicket.DeleteRequest,
	comment *ucTicket.AddComment,
	upload *ucTicket.UploadAttachment,
	maxUploadBytes int64,
) *RequestHandler {
	return &RequestHandler{
		create:         create,
		get:            get,
		list:           list,
		update:         update,
		del:            del,
		comment:        comment,
		upload:         upload,
		maxUploadBytes: maxUploadBytes,
	}
}

// ======================================================
// CRUD
// ======================================================

func (h *RequestHandler) Create(c *gin.Context) {
	var req dto.CreateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	created, err := h.create.Execute(c.Request.Context(), middleware.Identity(c), domain.CreateInput{
		RequestNumber: req.RequestNumber,
		Equipment:     req.Equipment,
		IssueType:     req.IssueType,
		Description:   req.Description,
		Client:        req.Client,
		Status:        req.Status,
		OwnerID:       req.OwnerID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.NewRequest(created))
}

func (h *RequestHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "request_not_found")
	if !ok {
		return
	}

	req, err := h.get.Execute(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewRequest(req))
}

func (h *RequestHandler) List(c *gin.Context) {
	list, err := h.list.Execute(c.Request.Context(), middleware.Identity(c), c.Query("search"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, dto.NewRequestList(list))
}

func (h *RequestHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "request_not_found")
	if !ok {
		return
	}

	var req dto.UpdateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	updated, err := h.update.Execute(c.Request.Context(), middleware.Identity(c), id, domain.UpdateInput{
		Status:      req.Status,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewRequest(updated))
}

func (h *RequestHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "request_not_found")
	if !ok {
		return
	}

	if err := h.del.Execute(c.Request.Context(), middleware.Identity(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Done(c, http.StatusOK, "Request deleted.")
}

// ======================================================
// COMMENTS / ATTACHMENTS
// ======================================================

func (h *RequestHandler) AddComment(c *gin.Context) {
	id, ok := pathID(c, "id", "request_not_found")
	if !ok {
		return
	}

	var req dto.CommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	comment, err := h.comment.Execute(c.Request.Context(), middleware.Identity(c), id, req.Text)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"message": "Comment added.",
		"comment": dto.NewComment(comment),
	})
}

func (h *RequestHandler) UploadAttachment(c *gin.Context) {
	id, ok := pathID(c, "id", "request_not_found")
	if !ok {
		return
	}

	// room for the multipart envelope around the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperr.Write(c, http.StatusRequestEntityTooLarge, "file_too_large", "The file exceeds the upload limit.")
			return
		}
		httperr.BadRequest(c, "missing_file", "A multipart field named file is required.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		httperr.Write(c, http.StatusRequestEntityTooLarge, "file_too_large", "The file exceeds the upload limit.")
		return
	}

	att, err := h.upload.Execute(c.Request.Context(), middleware.Identity(c), ucTicket.UploadAttachmentInput{
		RequestID: id,
		FileName:  header.Filename,
		Data:      data,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.NewAttachment(att))
}
