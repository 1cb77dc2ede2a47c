package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/blinkid/internal/api/models"
	"github.com/smazurov/blinkid/internal/events"
	"github.com/smazurov/blinkid/internal/sequence"
)

func (s *Server) registerStatusRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/status",
		Summary:     "Status",
		Description: "Current activation, controller state and resume cursor",
		Tags:        []string{"status"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.StatusResponse, error) {
		return &models.StatusResponse{Body: s.statusData()}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-sequence",
		Method:      http.MethodGet,
		Path:        "/api/sequence",
		Summary:     "Sequence",
		Description: "Configured identifier sequence",
		Tags:        []string{"status"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.SequenceResponse, error) {
		seq := s.options.Controller.Sequence()
		entries := make([]models.SequenceEntry, 0, len(seq))
		for _, e := range seq {
			entries = append(entries, models.SequenceEntry{LED: string(e.LED), Blinks: e.Blinks})
		}
		return &models.SequenceResponse{
			Body: models.SequenceData{
				Entries:     entries,
				TotalBlinks: seq.TotalBlinks(),
				Summary:     seq.String(),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "press-button",
		Method:        http.MethodPost,
		Path:          "/api/press",
		Summary:       "Press",
		Description:   "Inject button presses. Two presses form a double-click and toggle the sequence.",
		Tags:          []string{"control"},
		Security:      withAuth(),
		Errors:        []int{401, 422},
		DefaultStatus: http.StatusOK,
	}, func(_ context.Context, input *models.PressRequest) (*models.PressResponse, error) {
		count := input.Body.Count
		if count == 0 {
			count = 1
		}
		for range count {
			s.eventBus.Publish(events.ButtonPressedEvent{
				Source:    "api",
				Timestamp: time.Now().Format(time.RFC3339),
			})
			s.options.Gesture.Press()
		}
		s.logger.Info("Injected button presses", "count", count, "active", s.options.Gesture.Active())
		return &models.PressResponse{
			Body: models.PressData{
				Active:  s.options.Gesture.Active(),
				Gesture: s.options.Gesture.State().String(),
			},
		}, nil
	})
}

func (s *Server) statusData() models.StatusData {
	st := s.options.Controller.Status()
	seq := s.options.Controller.Sequence()
	cursor := models.CursorData{
		LEDIndex:   st.Cursor.LEDIndex,
		BlinkIndex: st.Cursor.BlinkIndex,
	}
	if sequence.Valid(seq, st.Cursor) {
		cursor.LED = string(seq[st.Cursor.LEDIndex].LED)
	}
	return models.StatusData{
		Active:  s.options.Gesture.Active(),
		State:   string(st.State),
		Gesture: s.options.Gesture.State().String(),
		Cursor:  cursor,
		Passes:  st.Passes,
	}
}
