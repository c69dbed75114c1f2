package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/social-media-monitor/internal/models"
)

func date(value string) *time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestBuildExportQuery(t *testing.T) {
	tests := []struct {
		name         string
		filters      *models.ExportFilters
		wantArgs     int
		wantContains []string
		wantAbsent   []string
	}{
		{
			name:       "nil filters select everything",
			filters:    nil,
			wantArgs:   0,
			wantAbsent: []string{"WHERE"},
		},
		{
			name:       "empty filters select everything",
			filters:    &models.ExportFilters{},
			wantArgs:   0,
			wantAbsent: []string{"WHERE"},
		},
		{
			name: "date range filters metadata created_time",
			filters: &models.ExportFilters{
				StartDate: date("2021-01-01"),
				EndDate:   date("2021-02-01"),
			},
			wantArgs: 2,
			wantContains: []string{
				"cast(metadata->>'created_time' as date) >= $1",
				"cast(metadata->>'created_time' as date) < $2",
			},
		},
		{
			name:         "single flag",
			filters:      &models.ExportFilters{Adverse: true},
			wantArgs:     0,
			wantContains: []string{"(adverse = TRUE)"},
		},
		{
			name:         "multiple flags are OR-combined",
			filters:      &models.ExportFilters{Adverse: true, PQC: true, MI: true},
			wantArgs:     0,
			wantContains: []string{"(adverse = TRUE OR pqc = TRUE OR mi = TRUE)"},
		},
		{
			name:         "client filter",
			filters:      &models.ExportFilters{Clients: []string{"P1", "P2"}},
			wantArgs:     1,
			wantContains: []string{"page_id = ANY($1)"},
		},
		{
			name: "combined filters are AND-joined",
			filters: &models.ExportFilters{
				StartDate: date("2021-01-01"),
				Adverse:   true,
				Clients:   []string{"P1"},
			},
			wantArgs: 2,
			wantContains: []string{
				"cast(metadata->>'created_time' as date) >= $1",
				"(adverse = TRUE)",
				"page_id = ANY($2)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildExportQuery(tt.filters)

			if len(args) != tt.wantArgs {
				t.Errorf("got %d args, want %d", len(args), tt.wantArgs)
			}
			for _, fragment := range tt.wantContains {
				if !strings.Contains(query, fragment) {
					t.Errorf("query missing %q:\n%s", fragment, query)
				}
			}
			for _, fragment := range tt.wantAbsent {
				if strings.Contains(query, fragment) {
					t.Errorf("query should not contain %q:\n%s", fragment, query)
				}
			}
		})
	}
}
