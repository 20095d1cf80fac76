package repository

import (
	"fmt"
	"strings"

	"donation-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type IAuditRepository interface {
	Insert(entry *models.AuditLog) error
	List(filter models.AuditLogFilter) ([]models.AuditLog, int, error)
	CountByAction(days int) ([]models.AuditActionCount, error)
	CountByAdmin(days int) ([]models.AuditAdminCount, error)
	CountByDay(days int) ([]models.AuditDailyCount, error)
}

type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) IAuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (admin_id, action, resource_type, resource_id,
		                        old_values, new_values, ip_address, user_agent)
		VALUES (:admin_id, :action, :resource_type, :resource_id,
		        :old_values, :new_values, :ip_address, :user_agent)`

	if _, err := r.db.NamedExec(query, entry); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

func (r *AuditRepository) List(filter models.AuditLogFilter) ([]models.AuditLog, int, error) {
	conditions := []string{}
	args := []any{}

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Action != "" {
		addCondition("l.action = $%d", filter.Action)
	}
	if filter.AdminID != nil {
		addCondition("l.admin_id = $%d", *filter.AdminID)
	}
	if filter.ResourceType != "" {
		addCondition("l.resource_type = $%d", filter.ResourceType)
	}
	if filter.DateFrom != nil {
		addCondition("l.created_at >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addCondition("l.created_at <= $%d", *filter.DateTo)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM audit_logs l %s", where)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT l.*, a.email AS admin_email, a.full_name AS admin_name
		FROM audit_logs l
		LEFT JOIN admins a ON a.id = l.admin_id
		%s
		ORDER BY l.created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	logs := []models.AuditLog{}
	if err := r.db.Select(&logs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, total, nil
}

func (r *AuditRepository) CountByAction(days int) ([]models.AuditActionCount, error) {
	counts := []models.AuditActionCount{}
	err := r.db.Select(&counts, `
		SELECT action, COUNT(*) AS count
		FROM audit_logs
		WHERE created_at >= NOW() - make_interval(days => $1)
		GROUP BY action
		ORDER BY count DESC`, days)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit actions: %w", err)
	}
	return counts, nil
}

func (r *AuditRepository) CountByAdmin(days int) ([]models.AuditAdminCount, error) {
	counts := []models.AuditAdminCount{}
	err := r.db.Select(&counts, `
		SELECT a.email, a.full_name, COUNT(*) AS actions_count
		FROM audit_logs l
		JOIN admins a ON a.id = l.admin_id
		WHERE l.created_at >= NOW() - make_interval(days => $1)
		GROUP BY a.email, a.full_name
		ORDER BY actions_count DESC
		LIMIT 10`, days)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit admins: %w", err)
	}
	return counts, nil
}

func (r *AuditRepository) CountByDay(days int) ([]models.AuditDailyCount, error) {
	counts := []models.AuditDailyCount{}
	err := r.db.Select(&counts, `
		SELECT DATE(created_at) AS date, COUNT(*) AS count
		FROM audit_logs
		WHERE created_at >= NOW() - make_interval(days => $1)
		GROUP BY DATE(created_at)
		ORDER BY date DESC`, days)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit activity: %w", err)
	}
	return counts, nil
}
