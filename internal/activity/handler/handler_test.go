package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"agrilog/internal/activity/service/pipeline"
	audiostore "agrilog/internal/activity/store/audio"
	"agrilog/internal/activity/store/history"
)

const goodReport = "Applied organic compost to 2 acres of rice fields near the canal"

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

type HandlerSuite struct {
	suite.Suite
	history     *history.InMemoryStore
	transcriber *stubTranscriber
	router      chi.Router
	userID      string
}

func (s *HandlerSuite) SetupTest() {
	s.history = history.NewInMemory()
	blobs, err := audiostore.NewLocal(s.T().TempDir())
	s.Require().NoError(err)
	s.transcriber = &stubTranscriber{}

	p, err := pipeline.New(s.history, blobs, pipeline.WithTranscriber(s.transcriber))
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(p, s.history, blobs, logger)

	s.router = chi.NewRouter()
	h.Register(s.router)
	s.userID = uuid.NewString()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) postJSON(body any) *httptest.ResponseRecorder {
	encoded, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/activities", bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) submitBody() map[string]any {
	return map[string]any{
		"user_id": s.userID,
		"text":    goodReport,
		"location": map[string]any{
			"latitude":        18.52,
			"longitude":       73.85,
			"accuracy_meters": 10,
		},
	}
}

func (s *HandlerSuite) TestHandleSubmit() {
	s.Run("valid text submission is created", func() {
		w := s.postJSON(s.submitBody())
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

		var resp SubmitActivityResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
		s.Equal("verified", resp.Status)
		s.Equal(76, resp.Credits)
		s.True(resp.Verification.Passed)
		s.NotEmpty(resp.ID)
		s.Nil(resp.Audio)
	})

	s.Run("audio submission reports audio quality", func() {
		s.transcriber.text = goodReport
		body := s.submitBody()
		delete(body, "text")
		body["audio_base64"] = base64.StdEncoding.EncodeToString(make([]byte, 60000))

		w := s.postJSON(body)
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

		var resp SubmitActivityResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
		s.Require().NotNil(resp.Audio)
		s.Equal("good", resp.Audio.Quality)
	})

	s.Run("malformed JSON is a bad request", func() {
		req := httptest.NewRequest(http.MethodPost, "/activities", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("invalid user id is a bad request", func() {
		body := s.submitBody()
		body["user_id"] = "not-a-uuid"
		w := s.postJSON(body)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("missing text and audio is unprocessable", func() {
		body := s.submitBody()
		delete(body, "text")
		w := s.postJSON(body)
		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("junk text is unprocessable", func() {
		body := s.submitBody()
		body["text"] = "hello hello hello hello hello"
		w := s.postJSON(body)
		s.Equal(http.StatusUnprocessableEntity, w.Code)

		var resp map[string]string
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
		s.Equal("validation", resp["error"])
	})
}

func (s *HandlerSuite) TestHandleList() {
	s.Run("returns recorded activities", func() {
		s.Require().Equal(http.StatusCreated, s.postJSON(s.submitBody()).Code)

		req := httptest.NewRequest(http.MethodGet, "/activities?user_id="+s.userID, nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Require().Equal(http.StatusOK, w.Code)

		var resp ListActivitiesResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
		s.Require().Len(resp.Activities, 1)
		s.Equal("organic_input", resp.Activities[0].Category)
		s.Equal(76, resp.Activities[0].Credits)
	})

	s.Run("unknown user has an empty list", func() {
		req := httptest.NewRequest(http.MethodGet, "/activities?user_id="+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Require().Equal(http.StatusOK, w.Code)

		var resp ListActivitiesResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
		s.Empty(resp.Activities)
	})

	s.Run("missing user_id is unprocessable", func() {
		req := httptest.NewRequest(http.MethodGet, "/activities", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("invalid user_id is a bad request", func() {
		req := httptest.NewRequest(http.MethodGet, "/activities?user_id=abc", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("invalid limit is a bad request", func() {
		req := httptest.NewRequest(http.MethodGet, "/activities?user_id="+s.userID+"&limit=zero", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}
