// Package bootstrap seeds the users table from a CSV export.
package bootstrap

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"assignment_service/internal/auth"
	"assignment_service/internal/domain"
	"assignment_service/internal/errdefs"
	"assignment_service/internal/logging"
)

type UserCreator interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// Report counts what an import did with each data row.
type Report struct {
	Created  int
	Existing int
	Skipped  int
}

type Importer struct {
	users      UserCreator
	bcryptCost int
	logger     *logging.Logger
	now        func() time.Time
}

func NewImporter(users UserCreator, bcryptCost int, logger *logging.Logger) *Importer {
	return &Importer{users: users, bcryptCost: bcryptCost, logger: logger, now: time.Now}
}

var columns = []string{"first_name", "last_name", "email", "password"}

// Import reads first_name,last_name,email,password rows after a header row.
// Rows with a missing value are skipped and emails that are already present
// are left untouched, so running the import twice is harmless.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Report, error) {
	var report Report

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return report, fmt.Errorf("failed to read csv header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return report, err
	}

	now := im.now().UTC().Truncate(time.Millisecond)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}

		values := make(map[string]string, len(columns))
		for _, col := range columns {
			if i := index[col]; i < len(record) {
				values[col] = strings.TrimSpace(record[i])
			}
		}
		if values["first_name"] == "" || values["last_name"] == "" || values["email"] == "" || values["password"] == "" {
			im.logger.Warn(ctx, "skipping csv row with missing values", zap.Int("line", line))
			report.Skipped++
			continue
		}

		if err := im.create(ctx, values, now); err != nil {
			if errors.Is(err, errdefs.ErrAlreadyExists) {
				report.Existing++
				continue
			}
			return report, fmt.Errorf("failed to import csv line %d: %w", line, err)
		}
		report.Created++
	}

	im.logger.Info(ctx, "user import finished",
		zap.Int("created", report.Created),
		zap.Int("existing", report.Existing),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

func (im *Importer) create(ctx context.Context, values map[string]string, now time.Time) error {
	hash, err := auth.HashPassword(values["password"], im.bcryptCost)
	if err != nil {
		return err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate user id: %w", err)
	}

	_, err = im.users.Create(ctx, &domain.User{
		ID:             id,
		FirstName:      values["first_name"],
		LastName:       values["last_name"],
		Email:          values["email"],
		PasswordHash:   hash,
		AccountCreated: now,
		AccountUpdated: now,
	})
	return err
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := index["email"]; !ok {
		if i, ok := index["emailid"]; ok {
			index["email"] = i
		}
	}
	var missing []string
	for _, col := range columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, strconv.Quote(col))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv header is missing columns %s", strings.Join(missing, ", "))
	}
	return index, nil
}
