package barter

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter/entity"
)

// Handler exposes the engine over JSON HTTP endpoints.
type Handler struct {
	engine *Engine
	tokens *auth.TokenService
	logger *zap.SugaredLogger
}

func NewHandler(engine *Engine, tokens *auth.TokenService, logger *zap.SugaredLogger) *Handler {
	return &Handler{engine: engine, tokens: tokens, logger: logger}
}

// LoginRequest login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the member after session start.
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Member    *entity.Member `json:"member"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	m, err := h.engine.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, "login failed", err)
		return
	}
	token, exp, err := h.tokens.Issue(m.ID, string(m.Role))
	if err != nil {
		h.fail(w, "issue token", err)
		return
	}
	h.writeJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: exp, Member: m})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req Registration
	if !h.decode(w, r, &req) {
		return
	}
	m, err := h.engine.Register(r.Context(), req)
	if err != nil {
		h.fail(w, "register failed", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, m)
}

// PasswordResetRequest payload for the phone-verified reset.
type PasswordResetRequest struct {
	Username    string `json:"username"`
	PhoneNumber string `json:"phoneNumber"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.engine.ResetPassword(r.Context(), req.Username, req.PhoneNumber, req.NewPassword); err != nil {
		h.fail(w, "password reset failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	st, err := h.engine.Stats(r.Context(), p.MemberID)
	if err != nil {
		h.fail(w, "stats", err)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

func (h *Handler) MyAssets(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	assets, err := h.engine.AssetsOf(r.Context(), p.MemberID)
	if err != nil {
		h.fail(w, "list assets", err)
		return
	}
	h.writeJSON(w, http.StatusOK, assets)
}

func (h *Handler) SubmitAsset(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	var req entity.AssetMetadata
	if !h.decode(w, r, &req) {
		return
	}
	a, err := h.engine.SubmitAsset(r.Context(), p.MemberID, req)
	if err != nil {
		h.fail(w, "submit asset", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	var req entity.AssetPatch
	if !h.decode(w, r, &req) {
		return
	}
	a, err := h.engine.UpdateAsset(r.Context(), p.MemberID, r.PathValue("id"), req)
	if err != nil {
		h.fail(w, "update asset", err)
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	if err := h.engine.DeleteAsset(r.Context(), p.MemberID, r.PathValue("id")); err != nil {
		h.fail(w, "delete asset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	t, err := h.engine.Assign(r.Context(), p.MemberID)
	if err != nil {
		h.fail(w, "assign", err)
		return
	}
	if t == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) MyTasks(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	tasks, err := h.engine.TasksOf(r.Context(), p.MemberID)
	if err != nil {
		h.fail(w, "list tasks", err)
		return
	}
	h.writeJSON(w, http.StatusOK, tasks)
}

// SubmitContentRequest carries the link to the produced content.
type SubmitContentRequest struct {
	ContentLink string `json:"contentLink"`
}

func (h *Handler) SubmitContent(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	var req SubmitContentRequest
	if !h.decode(w, r, &req) {
		return
	}
	t, err := h.engine.SubmitContent(r.Context(), p.MemberID, r.PathValue("id"), req.ContentLink)
	if err != nil {
		h.fail(w, "submit content", err)
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

// ReviewRequest is the owner's decision; rating is optional.
type ReviewRequest struct {
	Approved bool   `json:"approved"`
	Feedback string `json:"feedback"`
	Rating   *int   `json:"rating"`
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	var req ReviewRequest
	if !h.decode(w, r, &req) {
		return
	}
	t, err := h.engine.ReviewTask(r.Context(), p.MemberID, r.PathValue("id"), Review{
		Approved: req.Approved,
		Feedback: req.Feedback,
		Rating:   req.Rating,
	})
	if err != nil {
		h.fail(w, "review", err)
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

func (h *Handler) PendingApprovals(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	tasks, err := h.engine.PendingApprovalsFor(r.Context(), p.MemberID)
	if err != nil {
		h.fail(w, "pending approvals", err)
		return
	}
	h.writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	items, err := h.engine.ApprovedContent(r.Context())
	if err != nil {
		h.fail(w, "content", err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

// ClaimRewardRequest spends Cost credits.
type ClaimRewardRequest struct {
	Cost int `json:"cost"`
}

func (h *Handler) ClaimReward(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	var req ClaimRewardRequest
	if !h.decode(w, r, &req) {
		return
	}
	m, err := h.engine.ClaimReward(r.Context(), p.MemberID, req.Cost)
	if err != nil {
		h.fail(w, "claim reward", err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

func (h *Handler) AdminMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.engine.Members(r.Context())
	if err != nil {
		h.fail(w, "list members", err)
		return
	}
	h.writeJSON(w, http.StatusOK, members)
}

// AddMemberRequest is the admin quick-add payload.
type AddMemberRequest struct {
	Username string `json:"username"`
}

func (h *Handler) AdminAddMember(w http.ResponseWriter, r *http.Request) {
	var req AddMemberRequest
	if !h.decode(w, r, &req) {
		return
	}
	m, err := h.engine.AddMember(r.Context(), req.Username)
	if err != nil {
		h.fail(w, "add member", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, m)
}

func (h *Handler) AdminUpdateMember(w http.ResponseWriter, r *http.Request) {
	var req entity.MemberPatch
	if !h.decode(w, r, &req) {
		return
	}
	m, err := h.engine.UpdateMember(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.fail(w, "update member", err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

func (h *Handler) AdminTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.engine.Tasks(r.Context())
	if err != nil {
		h.fail(w, "list tasks", err)
		return
	}
	h.writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.Debugw("invalid payload", "path", r.URL.Path, "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return false
	}
	return true
}

// fail maps engine errors to status codes; unknown errors are logged and hidden.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Errorw(op, "err", err)
		h.writeJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	h.logger.Debugw(op, "err", err)
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotAssignee), errors.Is(err, ErrNotAssetOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrDailyQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrDuplicateUsername), errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrAssetLocked), errors.Is(err, ErrAssetInUse):
		return http.StatusConflict
	case errors.Is(err, ErrPhoneMismatch), errors.Is(err, ErrInsufficientCredits),
		errors.Is(err, ErrContentLinkRequired), errors.Is(err, ErrRatingRequired),
		errors.Is(err, ErrInvalidRating), errors.Is(err, ErrInvalidInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
