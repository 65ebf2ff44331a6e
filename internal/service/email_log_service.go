package service

import (
	"context"
	"strings"

	"github.com/noah-isme/scholarship-portal-api/internal/dto"
	"github.com/noah-isme/scholarship-portal-api/internal/repository"
)

// EmailLogService lists delivery attempts for administrators.
type EmailLogService interface {
	List(ctx context.Context, req dto.EmailLogListRequest) (dto.EmailLogListResponse, error)
}

type emailLogService struct {
	repo repository.EmailLogRepository
}

// NewEmailLogService constructs the email log reader.
func NewEmailLogService(repo repository.EmailLogRepository) EmailLogService {
	return &emailLogService{repo: repo}
}

func (s *emailLogService) List(ctx context.Context, req dto.EmailLogListRequest) (dto.EmailLogListResponse, error) {
	entries, total, err := s.repo.List(ctx, repository.EmailLogFilter{
		Page:      req.Page,
		PageSize:  req.PageSize,
		Status:    strings.ToLower(strings.TrimSpace(req.Status)),
		Recipient: strings.ToLower(strings.TrimSpace(req.Recipient)),
	})
	if err != nil {
		return dto.EmailLogListResponse{}, err
	}

	items := make([]dto.EmailLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewEmailLogResponse(entry))
	}
	return dto.EmailLogListResponse{
		Items:      items,
		Pagination: buildPagination(req.Page, req.PageSize, total),
	}, nil
}
