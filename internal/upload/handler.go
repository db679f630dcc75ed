package upload

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/guestdrop/service/internal/response"
)

// maxRequestBody bounds the JSON body of an upload URL request.
const maxRequestBody = 16 << 10

// Handler holds HTTP handlers for upload endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new upload Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// IssueURL godoc
//
//	@Summary		Issue an upload URL
//	@Description	Validate the event code and return a presigned PUT URL, valid for 60 seconds, for one image or video.
//	@Tags			uploads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		Request	true	"File name, content type and event code"
//	@Success		200		{object}	SignedURL
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		401		{object}	response.ErrorBody
//	@Failure		429		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/api/upload-url [post]
func (h *Handler) IssueURL(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()

	var req Request
	if err := decodeJSON(r.Body, &req); err != nil {
		if errors.As(err, new(*http.MaxBytesError)) {
			response.BadRequest(w, "Request body too large")
			return
		}
		response.BadRequest(w, "Invalid JSON in request body")
		return
	}

	signed, err := h.svc.IssueURL(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, signed)
}

// decodeJSON decodes exactly one JSON value from r; anything after it other
// than whitespace is an error.
func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}
