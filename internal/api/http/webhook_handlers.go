package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/campaign-hub/campaign-hub/internal/domain/flow"
)

// webhook receives the provider's inbound message callback. Wire-format
// parsing stops here; the engine sees only the normalized event.
func (s *Server) webhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "malformed form payload")
		return
	}

	event, err := eventFromForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}

	if err := s.flowManager.HandleMessage(r.Context(), event); err != nil {
		s.logger.Error().Err(err).Str("from", event.From).Msg("failed to handle inbound message")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred, please try again later")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "received", "from": event.From})
}

func eventFromForm(r *http.Request) (*flow.Event, error) {
	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")
	numMedia, _ := strconv.Atoi(r.PostFormValue("NumMedia"))

	if from == "" {
		return nil, fmt.Errorf("missing sender")
	}
	if body == "" && numMedia == 0 {
		return nil, fmt.Errorf("message carries neither text nor media")
	}

	var mediaURLs []string
	for i := 0; i < numMedia; i++ {
		if u := r.PostFormValue("MediaUrl" + strconv.Itoa(i)); u != "" {
			mediaURLs = append(mediaURLs, u)
		}
	}

	return &flow.Event{
		From:        from,
		Body:        body,
		NumMedia:    numMedia,
		MediaURLs:   mediaURLs,
		MessageSID:  r.PostFormValue("SmsMessageSid"),
		ProfileName: r.PostFormValue("ProfileName"),
	}, nil
}
