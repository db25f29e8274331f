package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/gateway"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/response"
	"mediconnect/pkg/validator"
)

// multipartOverhead covers boundaries and part headers around the file
const multipartOverhead = 1 << 20

type AnalysisHandler struct {
	analysisUsecase usecase.AnalysisUsecase
	validator       *validator.CustomValidator
	maxUploadBytes  int64
}

func NewAnalysisHandler(analysisUsecase usecase.AnalysisUsecase, validator *validator.CustomValidator, maxUploadBytes int64) *AnalysisHandler {
	return &AnalysisHandler{
		analysisUsecase: analysisUsecase,
		validator:       validator,
		maxUploadBytes:  maxUploadBytes,
	}
}

func (h *AnalysisHandler) AnalyzeSymptoms(w http.ResponseWriter, r *http.Request) {
	var req dto.AnalyzeSymptomsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.analysisUsecase.AnalyzeSymptoms(r.Context(), &req)
	if err != nil {
		h.analysisError(w, err, "Failed to analyze symptoms")
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// AnalyzeReport expects a multipart form with the document in "file"
func (h *AnalysisHandler) AnalyzeReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)

	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(w, "File is too large")
			return
		}
		response.BadRequest(w, "No valid file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		response.BadRequest(w, "Failed to read uploaded file")
		return
	}

	result, err := h.analysisUsecase.AnalyzeReport(r.Context(), data)
	if err != nil {
		h.analysisError(w, err, "Error processing file")
		return
	}

	response.JSON(w, http.StatusOK, result)
}

func (h *AnalysisHandler) analysisError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrEmptyFile):
		response.BadRequest(w, "No valid file uploaded")
	case errors.Is(err, usecase.ErrFileTooLarge):
		response.BadRequest(w, "File is too large")
	case errors.Is(err, usecase.ErrUnsupportedFileType):
		response.BadRequest(w, "Unsupported file type, upload a PDF, image or text file")
	case errors.Is(err, usecase.ErrMalformedResponse):
		response.BadGateway(w, "Analysis service returned an unexpected response")
	case errors.Is(err, gateway.ErrGeneratorUnavailable):
		response.ServiceUnavailable(w, "Analysis is not available")
	default:
		response.InternalServerError(w, fallback)
	}
}
