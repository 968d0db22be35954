package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/auth"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

type registerRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ProfileImageURL string `json:"profileImageUrl"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}

	req.FullName = sanitizeInput(req.FullName)
	req.Email = sanitizeInput(req.Email)
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.serverError(w, r, "register", err)
		return
	}

	user, err := s.users.CreateUser(r.Context(), req.FullName, req.Email, hash, sanitizeInput(req.ProfileImageURL))
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			writeMessage(w, http.StatusBadRequest, "Email already registered")
			return
		}
		s.serverError(w, r, "register", err)
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.serverError(w, r, "register", err)
		return
	}

	s.logger.InfoContext(r.Context(), "User registered",
		log.FieldUserID, user.ID, log.FieldEmail, user.Email)
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":  user.Public(),
		"token": token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}

	req.Email = sanitizeInput(req.Email)
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeMessage(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		s.serverError(w, r, "login", err)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.serverError(w, r, "login", err)
		return
	}

	s.logger.InfoContext(r.Context(), "User logged in", log.FieldUserID, user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":  user.Public(),
		"token": token,
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}

// allowedImageTypes lists accepted upload MIME types.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/jpg":  true,
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if !allowedImageTypes[header.Header.Get("Content-Type")] {
		writeMessage(w, http.StatusBadRequest, "Invalid file type. Only JPEG, PNG, and JPG are allowed.")
		return
	}

	// Never trust the client-supplied name for the stored path.
	ext := filepath.Ext(header.Filename)
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)

	dst, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		s.serverError(w, r, "upload-image", err)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		s.serverError(w, r, "upload-image", err)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	imageURL := fmt.Sprintf("%s://%s/uploads/%s", scheme, r.Host, name)

	s.logger.InfoContext(r.Context(), "Image uploaded", log.FieldFilename, name)
	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": imageURL})
}
