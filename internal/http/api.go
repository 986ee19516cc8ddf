package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"noteshare/internal/auth"
	"noteshare/internal/domain"
	"noteshare/internal/service"
	"noteshare/internal/storage"
)

const ctxUserKey = "noteshare.user"

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	notes     service.NoteService
	tokens    *auth.TokenIssuer
	storage   storage.Service
	bucket    string
	keyPrefix string
}

func NewHandler(users service.UserService, notes service.NoteService, tokens *auth.TokenIssuer, store storage.Service, bucket, keyPrefix string) *Handler {
	return &Handler{
		users:     users,
		notes:     notes,
		tokens:    tokens,
		storage:   store,
		bucket:    bucket,
		keyPrefix: keyPrefix,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.GET("/", h.root)

	api := router.Group("/api")
	{
		api.GET("/health", h.health)

		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
		api.GET("/auth/me", h.authenticate(true), h.me)

		api.GET("/notes", h.authenticate(true), h.listNotes)
		api.POST("/notes", h.authenticate(true), h.createNote)
		api.GET("/notes/:id", h.authenticate(false), h.getNote)
		api.PUT("/notes/:id", h.authenticate(true), h.updateNote)
		api.DELETE("/notes/:id", h.authenticate(true), h.deleteNote)
		api.POST("/notes/:id/share", h.authenticate(true), h.shareNote)

		api.POST("/notes/:id/export", h.authenticate(true), h.exportNote)
		api.GET("/notes/:id/exports", h.authenticate(true), h.listExports)

		api.GET("/public-notes", h.listPublicNotes)
		api.GET("/shared/:id", h.getSharedNote)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// authenticate resolves the caller's identity from a bearer token. With
// required=false, verification failures leave the request anonymous rather
// than rejecting it; handlers then see a nil user.
func (h *Handler) authenticate(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		reject := func() {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
				return
			}
			c.Next()
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			reject()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			reject()
			return
		}

		userID, err := h.tokens.Verify(strings.TrimSpace(parts[1]), time.Now())
		if err != nil {
			reject()
			return
		}

		// the subject may have been deleted since the token was issued;
		// a store outage is not an identity failure and must not
		// degrade the caller to anonymous
		user, err := h.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				reject()
				return
			}
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Notes API is running",
		"status":    "active",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userToResponse(user))
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, userToResponse(currentUser(c)))
}

type createNoteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

func (h *Handler) createNote(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.notes.CreateNote(c.Request.Context(), currentUser(c), req.Title, req.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, noteToResponse(note))
}

func (h *Handler) listNotes(c *gin.Context) {
	notes, err := h.notes.ListNotes(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]NoteResponse, len(notes))
	for i := range notes {
		resp[i] = noteToResponse(&notes[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	note, err := h.notes.GetNote(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, noteToResponse(note))
}

type updateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (h *Handler) updateNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.notes.UpdateNote(c.Request.Context(), currentUser(c), id, req.Title, req.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, noteToResponse(note))
}

func (h *Handler) deleteNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	deleteRemote, err := strconv.ParseBool(c.DefaultQuery("delete_remote", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flag delete_remote"})
		return
	}

	if err := h.notes.DeleteNote(c.Request.Context(), currentUser(c), id); err != nil {
		h.writeError(c, err)
		return
	}

	var warnings []string
	if deleteRemote {
		if h.storage == nil || h.bucket == "" {
			warnings = append(warnings, "storage service not configured")
		} else {
			remoteCtx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
			defer cancel()
			if err := h.storage.DeletePrefix(remoteCtx, h.bucket, h.exportPrefix(id)); err != nil {
				warnings = append(warnings, fmt.Sprintf("delete remote exports: %v", err))
			}
		}
	}

	resp := gin.H{"deleted": id}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	c.JSON(http.StatusOK, resp)
}

type shareNoteRequest struct {
	IsPublic *bool `json:"is_public" binding:"required"`
}

func (h *Handler) shareNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	var req shareNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.notes.ShareNote(c.Request.Context(), currentUser(c), id, *req.IsPublic)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := gin.H{
		"message":   "Note sharing updated",
		"is_public": note.IsPublic,
	}
	if note.IsPublic {
		resp["share_url"] = fmt.Sprintf("/shared/%d", note.ID)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) exportNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "storage service not configured"})
		return
	}

	caller := currentUser(c)
	note, err := h.notes.GetNote(c.Request.Context(), caller, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	// exporting is a write-level privilege: public notes are readable by
	// anyone but only the owner may export them
	if !auth.CanWriteNote(note, caller) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for this note"})
		return
	}

	content := fmt.Sprintf("# %s\n\n%s\n", note.Title, note.Body)
	key, err := h.storage.UploadNote(c.Request.Context(), []byte(content), storage.UploadOptions{
		Bucket:    h.bucket,
		KeyPrefix: h.exportPrefix(note.ID),
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "export upload failed"})
		return
	}

	resp := gin.H{
		"location": fmt.Sprintf("s3://%s/%s", h.bucket, key),
		"key":      key,
	}
	if url, err := h.storage.GetObjectURL(c.Request.Context(), h.bucket, key, 15*time.Minute); err == nil {
		resp["url"] = url
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) listExports(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "storage service not configured"})
		return
	}

	caller := currentUser(c)
	note, err := h.notes.GetNote(c.Request.Context(), caller, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !auth.CanWriteNote(note, caller) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for this note"})
		return
	}

	objects, err := h.storage.ListObjects(c.Request.Context(), h.bucket, h.exportPrefix(note.ID))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "list exports failed"})
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listPublicNotes(c *gin.Context) {
	notes, err := h.notes.ListPublicNotes(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]PublicNoteResponse, len(notes))
	for i := range notes {
		resp[i] = publicNoteToResponse(&notes[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getSharedNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	note, err := h.notes.GetSharedNote(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, publicNoteToResponse(note))
}

func (h *Handler) exportPrefix(noteID int64) string {
	prefix := strings.Trim(h.keyPrefix, "/")
	if prefix == "" {
		return fmt.Sprintf("note-%d", noteID)
	}
	return fmt.Sprintf("%s/note-%d", prefix, noteID)
}

// writeError translates core error kinds into stable HTTP responses.
// Anything unexpected is reported as a retryable service error without
// leaking internals. An anonymous caller denied access gets 401 rather
// than 403, so clients know presenting a token may help.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
	case errors.Is(err, service.ErrDuplicateRegistration):
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrDuplicateRegistration.Error()})
	case errors.Is(err, service.ErrNoteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrNoteNotFound.Error()})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrUserNotFound.Error()})
	case errors.Is(err, service.ErrForbidden):
		if currentUser(c) == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": service.ErrForbidden.Error()})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	}
}

func noteID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note id"})
		return 0, false
	}
	return id, true
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type NoteResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsPublic  bool   `json:"is_public"`
	OwnerID   int64  `json:"owner_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type PublicNoteResponse struct {
	NoteResponse
	OwnerUsername string `json:"owner_username"`
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func userToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

func noteToResponse(note *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Body,
		IsPublic:  note.IsPublic,
		OwnerID:   note.OwnerID,
		CreatedAt: note.CreatedAt.Format(time.RFC3339),
		UpdatedAt: note.UpdatedAt.Format(time.RFC3339),
	}
}

func publicNoteToResponse(note *domain.PublicNote) PublicNoteResponse {
	return PublicNoteResponse{
		NoteResponse:  noteToResponse(&note.Note),
		OwnerUsername: note.OwnerUsername,
	}
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
