package kafka

import (
	"context"
	"errors"
	"testing"

	"dispatch/internal/core/application/coordinator"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) ReportPosition(ctx context.Context, cmd commands.ReportPositionCommand) (coordinator.PositionOutcome, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(coordinator.PositionOutcome), args.Error(1)
}

func newHandler() (*LocationHandler, *mockReporter) {
	logger, _ := test.NewNullLogger()
	r := &mockReporter{}
	return NewLocationHandler(r, logrus.NewEntry(logger)), r
}

func message(value string) *sarama.ConsumerMessage {
	return &sarama.ConsumerMessage{Value: []byte(value)}
}

func TestLocationHandler_Handle(t *testing.T) {
	orderID, partnerID := kernel.NewUUID(), kernel.NewUUID()
	valid := `{"orderId":"` + orderID.String() + `","partnerId":"` + partnerID.String() +
		`","lat":28.6139,"lng":77.2090,"recordedAt":"2026-03-01T12:00:00Z"}`

	t.Run("should report a valid ping", func(t *testing.T) {
		h, r := newHandler()
		r.On("ReportPosition", mock.Anything, mock.MatchedBy(func(cmd commands.ReportPositionCommand) bool {
			return cmd.OrderID().IsEqual(orderID) && cmd.PartnerID().IsEqual(partnerID) && !cmd.RecordedAt().IsZero()
		})).Return(coordinator.PositionOutcome{Accepted: true}, nil).Once()

		require.NoError(t, h.Handle(t.Context(), message(valid)))
		r.AssertExpectations(t)
	})

	t.Run("should treat discarded pings as handled", func(t *testing.T) {
		h, r := newHandler()
		r.On("ReportPosition", mock.Anything, mock.Anything).
			Return(coordinator.PositionOutcome{Reason: coordinator.ReasonStaleOrder}, nil).Once()

		require.NoError(t, h.Handle(t.Context(), message(valid)))
	})

	t.Run("should skip malformed and invalid pings", func(t *testing.T) {
		h, r := newHandler()

		for _, v := range []string{
			`not json`,
			`{"orderId":"nope","partnerId":"` + partnerID.String() + `","lat":1,"lng":1}`,
			`{"orderId":"` + orderID.String() + `","partnerId":"` + partnerID.String() + `","lat":91,"lng":1}`,
		} {
			err := h.Handle(t.Context(), message(v))
			require.ErrorIs(t, err, errPoison, v)
		}
		r.AssertNotCalled(t, "ReportPosition", mock.Anything, mock.Anything)
	})

	t.Run("should skip pings from partners not assigned", func(t *testing.T) {
		h, r := newHandler()
		r.On("ReportPosition", mock.Anything, mock.Anything).
			Return(coordinator.PositionOutcome{}, tracking.NewNotAssignedError(orderID, partnerID)).Once()

		err := h.Handle(t.Context(), message(valid))
		require.ErrorIs(t, err, errPoison)
	})

	t.Run("should surface infrastructure failures for redelivery", func(t *testing.T) {
		h, r := newHandler()
		boom := errors.New("db down")
		r.On("ReportPosition", mock.Anything, mock.Anything).Return(coordinator.PositionOutcome{}, boom).Once()

		err := h.Handle(t.Context(), message(valid))
		require.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, errPoison)
	})
}
