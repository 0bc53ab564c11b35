package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"director-server/internal/handler"
	"director-server/internal/mocks"
	"director-server/internal/models"
	"director-server/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const waitFor = 2 * time.Second

func neonRun() *models.DirectorResponse {
	return &models.DirectorResponse{
		Title:   "Neon Run",
		Logline: "A courier races through rain-soaked streets.",
		Mood:    "Cyberpunk Noir",
		Cuts: []models.Cut{
			{
				Sequence:          1,
				Title:             "Alley Start",
				ActionDescription: "MIRA bursts out of a narrow alley.",
				Visuals:           models.VisualDetails{CameraMovement: "handheld tracking", Angle: "eye level", Lighting: "sodium vapor", LensChoice: "35mm anamorphic"},
				GeneratedPrompt:   "Narrow alley at night, wet asphalt, courier sprinting.",
			},
			{
				Sequence:          2,
				Title:             "The Jump",
				ActionDescription: `MIRA: "Hold on."`,
				Visuals:           models.VisualDetails{CameraMovement: "whip pan", Angle: "dutch angle", Lighting: "magenta rim", LensChoice: "24mm"},
				GeneratedPrompt:   "Rooftops at night, courier mid-leap.",
			},
		},
	}
}

type HandlerSuite struct {
	suite.Suite
	gen      *mocks.MockGenerator
	registry *session.Registry
	router   *gin.Engine
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.gen = mocks.NewMockGenerator(s.T())
	s.registry = session.NewRegistry(s.gen, time.Minute, zap.NewNop())

	s.router = gin.New()
	s.router.Use(handler.GinZapLogger(zap.NewNop()))
	handler.NewDirectorHandler(s.registry, nil, zap.NewNop()).RegisterRoutes(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.registry.CloseAll()
}

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) createSession() string {
	w := s.do(http.MethodPost, "/sessions", nil)
	s.Require().Equal(http.StatusCreated, w.Code)

	var dto handler.SessionDTO
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &dto))
	s.Equal(session.StatusIdle, dto.Status)
	return dto.SessionID
}

func (s *HandlerSuite) getSession(id string) handler.SessionDTO {
	w := s.do(http.MethodGet, "/sessions/"+id, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var dto handler.SessionDTO
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &dto))
	return dto
}

func (s *HandlerSuite) waitStatus(id string, want session.Status) handler.SessionDTO {
	var dto handler.SessionDTO
	s.Require().Eventually(func() bool {
		dto = s.getSession(id)
		return dto.Status == want
	}, waitFor, 10*time.Millisecond)
	return dto
}

func (s *HandlerSuite) succeed(id string) {
	s.gen.On("Generate", mock.Anything, "a courier in the rain", mock.Anything).Return(neonRun(), nil).Once()
	w := s.do(http.MethodPost, "/sessions/"+id+"/submit", handler.SubmitRequest{Idea: "a courier in the rain"})
	s.Require().Equal(http.StatusAccepted, w.Code)
	s.waitStatus(id, session.StatusSuccess)
}

func (s *HandlerSuite) TestSubmitSuccess() {
	id := s.createSession()
	s.gen.On("Generate", mock.Anything, "a courier in the rain", mock.MatchedBy(func(name *string) bool {
		return name != nil && *name == "Mira"
	})).Return(neonRun(), nil).Once()

	name := "Mira"
	w := s.do(http.MethodPost, "/sessions/"+id+"/submit", handler.SubmitRequest{Idea: "a courier in the rain", CharacterName: &name})
	s.Require().Equal(http.StatusAccepted, w.Code)

	var ack handler.SubmitResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &ack))
	s.Equal(id, ack.SessionID)
	s.Equal(session.StatusLoading, ack.Status)
	s.NotEmpty(ack.RequestID)

	dto := s.waitStatus(id, session.StatusSuccess)
	s.Require().NotNil(dto.Response)
	s.Equal("Neon Run", dto.Response.Title)
	s.Equal(ack.RequestID, dto.RequestID)
	s.Equal("00:16s", dto.Runtime)
}

func (s *HandlerSuite) TestSubmitFailureHidesDetails() {
	id := s.createSession()
	s.gen.On("Generate", mock.Anything, "idea", mock.Anything).
		Return(nil, errors.New("upstream said: invalid key sk-123")).Once()

	w := s.do(http.MethodPost, "/sessions/"+id+"/submit", handler.SubmitRequest{Idea: "idea"})
	s.Require().Equal(http.StatusAccepted, w.Code)

	dto := s.waitStatus(id, session.StatusError)
	s.Equal(models.GenerationFailedMessage, dto.Error)

	w = s.do(http.MethodGet, "/sessions/"+id, nil)
	s.NotContains(w.Body.String(), "sk-123")
	s.NotContains(w.Body.String(), "TransportOrServiceFailure")
}

func (s *HandlerSuite) TestSubmitValidation() {
	id := s.createSession()

	w := s.do(http.MethodPost, "/sessions/"+id+"/submit", handler.SubmitRequest{Idea: "   "})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), handler.ErrCodeEmptyIdea)

	w = s.do(http.MethodPost, "/sessions/"+id+"/submit", map[string]string{})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), handler.ErrCodeBadRequest)

	s.Equal(session.StatusIdle, s.getSession(id).Status)
}

func (s *HandlerSuite) TestSubmitAfterSuccessConflicts() {
	id := s.createSession()
	s.succeed(id)

	w := s.do(http.MethodPost, "/sessions/"+id+"/submit", handler.SubmitRequest{Idea: "another"})
	s.Equal(http.StatusConflict, w.Code)
	s.Contains(w.Body.String(), handler.ErrCodeInvalidTransition)

	w = s.do(http.MethodPost, "/sessions/"+id+"/reset", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var dto handler.SessionDTO
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &dto))
	s.Equal(session.StatusIdle, dto.Status)
	s.Nil(dto.Response)
}

func (s *HandlerSuite) TestExport() {
	id := s.createSession()

	w := s.do(http.MethodGet, "/sessions/"+id+"/export", nil)
	s.Equal(http.StatusConflict, w.Code)
	s.Contains(w.Body.String(), handler.ErrCodeNoResult)

	s.succeed(id)

	w = s.do(http.MethodGet, "/sessions/"+id+"/export", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("attachment; filename=neon_run_script.txt", w.Header().Get("Content-Disposition"))
	s.True(strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	s.True(strings.HasPrefix(w.Body.String(), "TITLE: Neon Run\n"))
	s.Contains(w.Body.String(), "--- CUT 2 (The Jump) ---")
}

func (s *HandlerSuite) TestExportFileNameFromHostileTitle() {
	id := s.createSession()
	resp := neonRun()
	resp.Title = "../Café/Noir"
	s.gen.On("Generate", mock.Anything, "a courier in the rain", mock.Anything).Return(resp, nil).Once()
	w := s.do(http.MethodPost, "/sessions/"+id+"/submit", handler.SubmitRequest{Idea: "a courier in the rain"})
	s.Require().Equal(http.StatusAccepted, w.Code)
	s.waitStatus(id, session.StatusSuccess)

	w = s.do(http.MethodGet, "/sessions/"+id+"/export", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	s.Require().NoError(err)
	s.Equal("attachment", disposition)
	s.Equal("caf_noir_script.txt", params["filename"])
}

func (s *HandlerSuite) TestCutDetails() {
	id := s.createSession()
	s.succeed(id)

	w := s.do(http.MethodGet, "/sessions/"+id+"/cuts/2", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.True(strings.HasPrefix(w.Body.String(), "[SCENE 2: The Jump]"))

	w = s.do(http.MethodGet, "/sessions/"+id+"/cuts/7", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Contains(w.Body.String(), handler.ErrCodeCutNotFound)

	w = s.do(http.MethodGet, "/sessions/"+id+"/cuts/zero", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestUnknownAndDeletedSession() {
	w := s.do(http.MethodGet, "/sessions/does-not-exist", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Contains(w.Body.String(), handler.ErrCodeSessionNotFound)

	id := s.createSession()
	w = s.do(http.MethodDelete, "/sessions/"+id, nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodPost, "/sessions/"+id+"/reset", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestWebSocketStreamsStates() {
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	id := s.createSession()
	s.gen.On("Generate", mock.Anything, "idea", mock.Anything).Return(neonRun(), nil).Once()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	s.Require().NoError(err)
	defer conn.Close()

	read := func() handler.SessionDTO {
		s.Require().NoError(conn.SetReadDeadline(time.Now().Add(waitFor)))
		var dto handler.SessionDTO
		s.Require().NoError(conn.ReadJSON(&dto))
		return dto
	}

	s.Equal(session.StatusIdle, read().Status)

	w := s.do(http.MethodPost, "/sessions/"+id+"/submit", handler.SubmitRequest{Idea: "idea"})
	s.Require().Equal(http.StatusAccepted, w.Code)

	var last handler.SessionDTO
	for last.Status != session.StatusSuccess {
		last = read()
	}
	s.Require().NotNil(last.Response)
	s.Equal("Neon Run", last.Response.Title)
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := session.NewRegistry(mocks.NewMockGenerator(t), time.Minute, zap.NewNop())
	defer registry.CloseAll()

	router := gin.New()
	handler.NewDirectorHandler(registry, []string{"http://allowed.test"}, zap.NewNop()).RegisterRoutes(router)
	srv := httptest.NewServer(router)
	defer srv.Close()

	m := registry.Create()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + m.ID() + "/ws"

	header := http.Header{"Origin": []string{"http://evil.test"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
