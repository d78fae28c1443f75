package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"content-release-service/internal/app"
	"content-release-service/internal/domain"
	"content-release-service/internal/logger"
)

// AccessKeyHeader carries the private event key; the "key" query parameter is the fallback.
const AccessKeyHeader = "X-Access-Key"

// Handler serves the learner and admin REST surface.
type Handler struct {
	access   *app.AccessEvaluator
	quizzes  *app.QuizService
	validate *validator.Validate
	log      *logger.Logger
}

func NewHandler(access *app.AccessEvaluator, quizzes *app.QuizService, log *logger.Logger) *Handler {
	return &Handler{
		access:   access,
		quizzes:  quizzes,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With("component", "HTTPHandler"),
	}
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /events/{event}/lessons/{lesson}/access", h.getAccess)
	mux.HandleFunc("GET /events/{event}/lessons/{lesson}/playback", h.getPlayback)
	mux.HandleFunc("GET /events/{event}/lessons/{lesson}/materials", h.getMaterials)
	mux.HandleFunc("GET /events/{event}/lessons/{lesson}/quiz", h.getLessonQuiz)
	mux.HandleFunc("POST /events/{event}/lessons/{lesson}/quiz/submit", h.submitLessonQuiz)

	mux.HandleFunc("POST /admin/lessons/{lessonID}/quiz", h.createQuiz)
	mux.HandleFunc("PUT /admin/quizzes/{quizID}", h.updateQuiz)
	mux.HandleFunc("GET /admin/quizzes/{quizID}", h.getQuiz)
}

func accessKey(r *http.Request) string {
	if key := r.Header.Get(AccessKeyHeader); key != "" {
		return key
	}
	return r.URL.Query().Get("key")
}

// authorize evaluates access for the path's lesson and writes the response
// itself when the caller must stop.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (domain.AccessDecision, bool) {
	decision, err := h.access.EvaluateAccess(r.Context(), r.PathValue("event"), r.PathValue("lesson"), accessKey(r))
	if err != nil {
		writeError(w, h.log, err)
		return decision, false
	}
	if !decision.Authorized {
		writeDenied(w, decision, domain.CountdownFor(decision.Lesson, h.access.Now()))
		return decision, false
	}
	return decision, true
}

func (h *Handler) getAccess(w http.ResponseWriter, r *http.Request) {
	decision, err := h.access.EvaluateAccess(r.Context(), r.PathValue("event"), r.PathValue("lesson"), accessKey(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	body := newAccessBody(decision, domain.CountdownFor(decision.Lesson, h.access.Now()))
	status := http.StatusOK
	if !decision.Authorized {
		status = http.StatusForbidden
	}
	writeJSON(w, status, body)
}

type playbackResponse struct {
	LessonID    string `json:"lessonId"`
	Title       string `json:"title"`
	PlaybackURL string `json:"playbackUrl"`
}

func (h *Handler) getPlayback(w http.ResponseWriter, r *http.Request) {
	decision, ok := h.authorize(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, playbackResponse{
		LessonID:    decision.Lesson.ID,
		Title:       decision.Lesson.Title,
		PlaybackURL: decision.Lesson.PlaybackURL,
	})
}

type materialsResponse struct {
	LessonID  string            `json:"lessonId"`
	Materials []domain.Material `json:"materials"`
}

func (h *Handler) getMaterials(w http.ResponseWriter, r *http.Request) {
	decision, ok := h.authorize(w, r)
	if !ok {
		return
	}
	materials := decision.Lesson.Materials
	if materials == nil {
		materials = []domain.Material{}
	}
	writeJSON(w, http.StatusOK, materialsResponse{LessonID: decision.Lesson.ID, Materials: materials})
}

type learnerQuizResponse struct {
	Quiz domain.LearnerQuiz `json:"quiz"`
}

func (h *Handler) getLessonQuiz(w http.ResponseWriter, r *http.Request) {
	decision, quiz, err := h.quizzes.LessonQuiz(r.Context(), r.PathValue("event"), r.PathValue("lesson"), accessKey(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if !decision.Authorized {
		writeDenied(w, decision, domain.CountdownFor(decision.Lesson, h.access.Now()))
		return
	}
	writeJSON(w, http.StatusOK, learnerQuizResponse{Quiz: quiz.LearnerView()})
}

type resultResponse struct {
	Result domain.QuizResult `json:"result"`
}

// submitLessonQuiz gates before reading the body, so locked or blocked
// lessons answer 403 whatever was submitted.
func (h *Handler) submitLessonQuiz(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(w, r); !ok {
		return
	}
	var req submissionRequest
	if err := decodeAndValidate(w, r, h.validate, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	decision, result, err := h.quizzes.SubmitLessonQuiz(r.Context(), r.PathValue("event"), r.PathValue("lesson"), accessKey(r), req.toAnswers())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if !decision.Authorized {
		writeDenied(w, decision, domain.CountdownFor(decision.Lesson, h.access.Now()))
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Result: result})
}

type quizResponse struct {
	Quiz domain.Quiz `json:"quiz"`
}

func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := decodeAndValidate(w, r, h.validate, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	quiz, err := h.quizzes.CreateQuiz(r.Context(), r.PathValue("lessonID"), req.toInput())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, quizResponse{Quiz: quiz})
}

func (h *Handler) updateQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := decodeAndValidate(w, r, h.validate, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	quiz, err := h.quizzes.UpdateQuiz(r.Context(), r.PathValue("quizID"), req.toInput())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, quizResponse{Quiz: quiz})
}

func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.GetQuiz(r.Context(), r.PathValue("quizID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, quizResponse{Quiz: quiz})
}
