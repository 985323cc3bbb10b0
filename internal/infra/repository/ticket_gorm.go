package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/repair-desk/internal/domain/ticket"
	"github.com/BruksfildServices01/repair-desk/internal/httperr"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

var _ domain.Repository = (*TicketGormRepository)(nil)

type TicketGormRepository struct {
	db *gorm.DB
}

func NewTicketGormRepository(db *gorm.DB) *TicketGormRepository {
	return &TicketGormRepository{db: db}
}

func preloadTicket(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("date_added ASC, id ASC")
		}).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}

// --------------------------------------------------
// Request
// --------------------------------------------------

func (r *TicketGormRepository) RequestNumberExists(
	ctx context.Context,
	number string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("request_number = ?", number).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("count request_number: %w", err)
	}
	return count > 0, nil
}

func (r *TicketGormRepository) CreateRequest(
	ctx context.Context,
	req *models.Request,
) error {

	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error
	if httperr.IsUniqueViolation(err) {
		return domain.ErrRequestNumberTaken
	}
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return nil
}

func (r *TicketGormRepository) GetRequest(
	ctx context.Context,
	id uint,
) (*models.Request, error) {

	var req models.Request
	err := preloadTicket(r.db.WithContext(ctx)).First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	return &req, nil
}

func (r *TicketGormRepository) UpdateRequest(
	ctx context.Context,
	id uint,
	mutate func(*models.Request) error,
) (*models.Request, error) {

	var updated models.Request
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		// sqlite serialises writers and has no row locks
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var req models.Request
		if err := q.First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRequestNotFound
			}
			return err
		}

		if err := mutate(&req); err != nil {
			return err
		}

		if err := tx.Model(&req).
			Select("status", "description", "assigned_to", "completed_at").
			Updates(&req).Error; err != nil {
			return err
		}

		return preloadTicket(tx).First(&updated, id).Error
	})
	if err != nil {
		if httperr.KindOf(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("update request: %w", err)
	}
	return &updated, nil
}

func (r *TicketGormRepository) DeleteRequest(
	ctx context.Context,
	id uint,
) ([]models.Attachment, error) {

	var removed []models.Attachment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.Request
		if err := tx.Select("id").First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRequestNotFound
			}
			return err
		}

		if err := tx.Where("request_id = ?", id).Find(&removed).Error; err != nil {
			return err
		}
		if err := tx.Where("request_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("request_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Request{}, id).Error
	})
	if err != nil {
		if httperr.KindOf(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("delete request: %w", err)
	}
	return removed, nil
}

func (r *TicketGormRepository) ListRequests(
	ctx context.Context,
	search string,
) ([]models.Request, error) {

	q := preloadTicket(r.db.WithContext(ctx)).Model(&models.Request{})
	if search != "" {
		q = q.Where(r.searchClause(), searchArgs(search)...)
	}

	var list []models.Request
	if err := q.Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return list, nil
}

func (r *TicketGormRepository) ListRequestsForClient(
	ctx context.Context,
	ownerID uint,
	clientName string,
) ([]models.Request, error) {

	var list []models.Request
	if err := preloadTicket(r.db.WithContext(ctx)).
		Where("owner_id = ? OR (owner_id IS NULL AND client = ?)", ownerID, clientName).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list client requests: %w", err)
	}
	return list, nil
}

// searchClause ORs a case-sensitive substring test over every searchable
// column. LIKE is avoided: it folds case on sqlite and treats % and _ in
// the term as wildcards.
func (r *TicketGormRepository) searchClause() string {
	fn := "instr(%s, ?) > 0"
	if r.db.Dialector.Name() == "postgres" {
		fn = "strpos(%s, ?) > 0"
	}

	parts := make([]string, 0, len(domain.SearchColumns))
	for _, col := range domain.SearchColumns {
		parts = append(parts, fmt.Sprintf(fn, col))
	}
	return strings.Join(parts, " OR ")
}

func searchArgs(term string) []any {
	args := make([]any, len(domain.SearchColumns))
	for i := range args {
		args[i] = term
	}
	return args
}

// --------------------------------------------------
// Comment
// --------------------------------------------------

func (r *TicketGormRepository) AddComment(
	ctx context.Context,
	c *models.Comment,
) error {

	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		// the ticket was deleted between the existence check and the insert
		return domain.ErrRequestNotFound
	}
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Attachment
// --------------------------------------------------

func (r *TicketGormRepository) AddAttachment(
	ctx context.Context,
	a *models.Attachment,
) error {

	err := r.db.WithContext(ctx).Create(a).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return domain.ErrRequestNotFound
	}
	if err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Owner resolution
// --------------------------------------------------

func (r *TicketGormRepository) FindUsersByName(
	ctx context.Context,
	name string,
) ([]models.User, error) {

	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Limit(2).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find users by name: %w", err)
	}
	return users, nil
}

func (r *TicketGormRepository) UserExists(
	ctx context.Context,
	id uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("count user: %w", err)
	}
	return count > 0, nil
}

// --------------------------------------------------
// Statistics
// --------------------------------------------------

func (r *TicketGormRepository) CountRequests(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return count, nil
}

func (r *TicketGormRepository) CountByStatus(
	ctx context.Context,
	status domain.Status,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("status = ?", string(status)).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count requests by status: %w", err)
	}
	return count, nil
}

func (r *TicketGormRepository) CompletionSpans(
	ctx context.Context,
) ([]domain.CompletionSpan, error) {

	var spans []domain.CompletionSpan
	if err := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Select("date_added", "completed_at").
		Where("status = ? AND completed_at IS NOT NULL", string(domain.StatusDone)).
		Scan(&spans).Error; err != nil {
		return nil, fmt.Errorf("completion spans: %w", err)
	}
	return spans, nil
}

func (r *TicketGormRepository) CountByIssueType(
	ctx context.Context,
) (map[string]int64, error) {

	var rows []struct {
		IssueType string
		Total     int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Select("issue_type, COUNT(*) AS total").
		Group("issue_type").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count by issue type: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.IssueType] = row.Total
	}
	return out, nil
}
