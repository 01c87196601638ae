package service

import (
	"context"
	"fmt"

	"tagfeed/internal/apperror"
	"tagfeed/internal/repository"
)

const (
	StatusOK   = "ok"
	StatusDown = "down"
)

type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Tables   int    `json:"tables"`
}

type TablesService interface {
	Check(ctx context.Context) (*HealthStatus, error)
}

type tablesService struct {
	tablesRepo repository.TablesRepository
}

func NewTablesService(tablesRepo repository.TablesRepository) TablesService {
	return &tablesService{tablesRepo: tablesRepo}
}

// Check reports database reachability. The status is returned alongside an
// unavailable error when the database is down.
func (t *tablesService) Check(ctx context.Context) (*HealthStatus, error) {
	status := &HealthStatus{Status: StatusDown, Database: StatusDown}

	if err := t.tablesRepo.Ping(ctx); err != nil {
		return status, apperror.Wrap(apperror.KindUnavailable, "Database is unavailable", err)
	}
	status.Database = StatusOK

	countTables, err := t.tablesRepo.CountTablesDB(ctx)
	if err != nil {
		return status, apperror.Wrap(apperror.KindUnavailable, "Database is unavailable", fmt.Errorf("count tables: %w", err))
	}

	status.Status = StatusOK
	status.Tables = countTables
	return status, nil
}
