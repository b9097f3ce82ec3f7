package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoUseCase "github.com/brujulapp/brujula/internal/crypto/usecase"
)

type mockSweepUseCase struct {
	mock.Mock
}

func (m *mockSweepUseCase) Sweep(
	ctx context.Context,
	params cryptoUseCase.SweepParams,
) (cryptoUseCase.SweepResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(cryptoUseCase.SweepResult), args.Error(1)
}

func TestRunReencryptMatriculas(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("single-page", func(t *testing.T) {
		mockUseCase := &mockSweepUseCase{}
		mockUseCase.
			On("Sweep", ctx, cryptoUseCase.SweepParams{PageSize: 100}).
			Return(cryptoUseCase.SweepResult{Processed: 42, Reencrypted: 10, Skipped: 2}, nil)

		var out bytes.Buffer
		err := RunReencryptMatriculas(ctx, mockUseCase, logger, &out, 100, false, "")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Records processed: 42")
		require.Contains(t, out.String(), "Re-encrypted: 10")
		require.Contains(t, out.String(), "Skipped (no payload): 2")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("multiple-pages", func(t *testing.T) {
		mockUseCase := &mockSweepUseCase{}
		mockUseCase.
			On("Sweep", ctx, cryptoUseCase.SweepParams{PageSize: 50}).
			Return(cryptoUseCase.SweepResult{Processed: 50, Reencrypted: 50, NextPageToken: "page2"}, nil)
		mockUseCase.
			On("Sweep", ctx, cryptoUseCase.SweepParams{PageSize: 50, ResumeToken: "page2"}).
			Return(cryptoUseCase.SweepResult{Processed: 30, Reencrypted: 30}, nil)

		var out bytes.Buffer
		err := RunReencryptMatriculas(ctx, mockUseCase, logger, &out, 50, false, "")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Records processed: 80")
		require.Contains(t, out.String(), "Re-encrypted: 80")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("dry-run", func(t *testing.T) {
		mockUseCase := &mockSweepUseCase{}
		mockUseCase.
			On("Sweep", ctx, cryptoUseCase.SweepParams{PageSize: 100, DryRun: true}).
			Return(cryptoUseCase.SweepResult{Processed: 20, Reencrypted: 5}, nil)

		var out bytes.Buffer
		err := RunReencryptMatriculas(ctx, mockUseCase, logger, &out, 100, true, "")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Would re-encrypt: 5")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("record-failures-make-command-fail", func(t *testing.T) {
		recordID := uuid.Must(uuid.NewV7())
		mockUseCase := &mockSweepUseCase{}
		mockUseCase.
			On("Sweep", ctx, cryptoUseCase.SweepParams{PageSize: 100}).
			Return(cryptoUseCase.SweepResult{
				Processed: 3,
				Failures:  []cryptoUseCase.SweepFailure{{RecordID: recordID, Reason: "unknown key id"}},
			}, nil)

		var out bytes.Buffer
		err := RunReencryptMatriculas(ctx, mockUseCase, logger, &out, 100, false, "")

		require.Error(t, err)
		require.Contains(t, err.Error(), "1 failed records")
		require.Contains(t, out.String(), recordID.String())
		require.Contains(t, out.String(), "unknown key id")
	})

	t.Run("sweep-error-reports-resume-token", func(t *testing.T) {
		mockUseCase := &mockSweepUseCase{}
		mockUseCase.
			On("Sweep", ctx, cryptoUseCase.SweepParams{PageSize: 25}).
			Return(cryptoUseCase.SweepResult{Processed: 25, NextPageToken: "page2"}, nil)
		mockUseCase.
			On("Sweep", ctx, cryptoUseCase.SweepParams{PageSize: 25, ResumeToken: "page2"}).
			Return(cryptoUseCase.SweepResult{}, errors.New("connection lost"))

		var out bytes.Buffer
		err := RunReencryptMatriculas(ctx, mockUseCase, logger, &out, 25, false, "")

		require.Error(t, err)
		require.Contains(t, err.Error(), "connection lost")
		require.Contains(t, out.String(), "--resume-token=page2")
	})

	t.Run("starts-from-given-resume-token", func(t *testing.T) {
		mockUseCase := &mockSweepUseCase{}
		mockUseCase.
			On("Sweep", ctx, cryptoUseCase.SweepParams{PageSize: 10, ResumeToken: "page5"}).
			Return(cryptoUseCase.SweepResult{Processed: 4}, nil)

		var out bytes.Buffer
		err := RunReencryptMatriculas(ctx, mockUseCase, logger, &out, 10, false, "page5")

		require.NoError(t, err)
		mockUseCase.AssertExpectations(t)
	})
}
