package services

import (
	"context"
	"fmt"
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	portsrepo "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/repositories"
	portssvc "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/dto"
	"github.com/google/uuid"
)

// programService implements portssvc.ProgramSvcFacade.
type programService struct {
	programRepo portsrepo.ProgramRepository
	audit       portssvc.AuditRecorder
}

// NewProgramService creates the program service.
func NewProgramService(programRepo portsrepo.ProgramRepository, audit portssvc.AuditRecorder) portssvc.ProgramSvcFacade {
	return &programService{programRepo: programRepo, audit: audit}
}

// CreateProgram creates a program in ACTIVE state.
func (s *programService) CreateProgram(ctx context.Context, req dto.CreateProgramRequest, creatorUserID string) (*domain.Program, error) {
	now := time.Now()
	program := domain.Program{
		ProgramID:   uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Status:      domain.ProgramActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.programRepo.SaveProgram(ctx, program); err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, creatorUserID, domain.ActionCreated, "program", program.ProgramID,
		nil, map[string]any{"name": program.Name})); err != nil {
		return nil, fmt.Errorf("program created but activity logging failed: %w", err)
	}
	return &program, nil
}

// GetProgramByID returns one program.
func (s *programService) GetProgramByID(ctx context.Context, programID string) (*domain.Program, error) {
	return s.programRepo.FindProgramByID(ctx, programID)
}

// ListPrograms returns programs with the total count.
func (s *programService) ListPrograms(ctx context.Context, limit, offset int) ([]domain.Program, int, error) {
	limit, offset = clampPage(limit, offset)
	return s.programRepo.ListPrograms(ctx, limit, offset)
}

// UpdateProgram applies the non-nil fields of the request.
func (s *programService) UpdateProgram(ctx context.Context, programID string, req dto.UpdateProgramRequest, updaterUserID string) (*domain.Program, error) {
	program, err := s.programRepo.FindProgramByID(ctx, programID)
	if err != nil {
		return nil, err
	}

	before := map[string]any{"name": program.Name, "description": program.Description, "status": string(program.Status)}
	if req.Name != nil {
		program.Name = *req.Name
	}
	if req.Description != nil {
		program.Description = *req.Description
	}
	if req.Status != nil {
		program.Status = domain.ProgramStatus(*req.Status)
	}
	program.LastUpdatedAt = time.Now()
	program.LastUpdatedBy = updaterUserID

	if err := s.programRepo.UpdateProgram(ctx, *program); err != nil {
		return nil, fmt.Errorf("failed to update program: %w", err)
	}
	after := map[string]any{"name": program.Name, "description": program.Description, "status": string(program.Status)}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, updaterUserID, domain.ActionUpdated, "program", program.ProgramID, before, after)); err != nil {
		return nil, fmt.Errorf("program updated but activity logging failed: %w", err)
	}
	return program, nil
}

// DeleteProgram removes a program.
func (s *programService) DeleteProgram(ctx context.Context, programID string, deleterUserID string) error {
	program, err := s.programRepo.FindProgramByID(ctx, programID)
	if err != nil {
		return err
	}
	if err := s.programRepo.DeleteProgram(ctx, programID); err != nil {
		return fmt.Errorf("failed to delete program: %w", err)
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, deleterUserID, domain.ActionDeleted, "program", programID,
		map[string]any{"name": program.Name}, nil)); err != nil {
		return fmt.Errorf("program deleted but activity logging failed: %w", err)
	}
	return nil
}
