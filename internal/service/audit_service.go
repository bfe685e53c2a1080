package service

import (
	"context"

	"tasklists/internal/domain"
	"tasklists/internal/logger"
)

// AuditRepository is implemented by repository.AuditRepository.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	Find(ctx context.Context, q domain.AuditQuery) ([]*domain.AuditLog, error)
}

// AuditService handles audit logging. Without a repository, entries only go
// to the application log.
type AuditService struct {
	repo AuditRepository
}

// NewAuditService creates a new audit service; repo may be nil
func NewAuditService(repo AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log creates a new audit log entry
func (s *AuditService) Log(ctx context.Context, userID, action, category string, details map[string]interface{}) {
	s.write(ctx, &domain.AuditLog{
		UserID:   userID,
		Action:   action,
		Category: category,
		Details:  details,
	})
}

// LogWithRequest creates an audit log with request info (IP, User-Agent)
func (s *AuditService) LogWithRequest(ctx context.Context, userID, action, category, ip, userAgent string, details map[string]interface{}) {
	s.write(ctx, &domain.AuditLog{
		UserID:    userID,
		Action:    action,
		Category:  category,
		Details:   details,
		IP:        ip,
		UserAgent: userAgent,
	})
}

func (s *AuditService) LogSignup(ctx context.Context, userID, ip, userAgent string) {
	s.LogWithRequest(ctx, userID, domain.AuditActionSignup, domain.AuditCategoryAuth, ip, userAgent, nil)
}

func (s *AuditService) LogLogin(ctx context.Context, userID, ip, userAgent string) {
	s.LogWithRequest(ctx, userID, domain.AuditActionLogin, domain.AuditCategoryAuth, ip, userAgent, nil)
}

func (s *AuditService) LogLogout(ctx context.Context, userID, ip, userAgent string) {
	s.LogWithRequest(ctx, userID, domain.AuditActionLogout, domain.AuditCategoryAuth, ip, userAgent, nil)
}

// LogList records a list create or delete.
func (s *AuditService) LogList(ctx context.Context, userID, action, listID, title string) {
	details := map[string]interface{}{
		"list_id": listID,
	}
	if title != "" {
		details["title"] = title
	}
	s.Log(ctx, userID, action, domain.AuditCategoryList, details)
}

// GetUserAuditLogs returns audit logs for a user
func (s *AuditService) GetUserAuditLogs(ctx context.Context, userID string, limit int) ([]*domain.AuditLog, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.Find(ctx, domain.AuditQuery{UserID: userID, Limit: limit})
}

// GetRecentLogs returns recent audit logs, optionally of one category.
func (s *AuditService) GetRecentLogs(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.Find(ctx, domain.AuditQuery{Category: category, Limit: limit})
}

func (s *AuditService) write(ctx context.Context, entry *domain.AuditLog) {
	if s == nil {
		return
	}
	if s.repo == nil {
		logger.Info("audit", "action", entry.Action, "category", entry.Category, "user_id", entry.UserID, "details", entry.Details)
		return
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		logger.WithContext(ctx).Error("failed to create audit log", "error", err, "action", entry.Action, "user_id", entry.UserID)
	}
}
