package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/gateway"
	"mediconnect/pkg/validator"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

var (
	ErrMalformedResponse   = errors.New("analysis service returned a malformed response")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyFile           = errors.New("no valid file uploaded")
	ErrFileTooLarge        = errors.New("file is too large")
	ErrAnalysisFailed      = errors.New("analysis failed")
)

// Report uploads must sniff as one of these
var allowedReportTypes = []string{
	"application/pdf",
	"image/png",
	"image/jpeg",
	"image/webp",
	"text/plain",
}

const symptomPrompt = `As a medical AI assistant, analyze the following symptoms and provide:
1. A list of 3-5 possible conditions that might cause these symptoms
2. General recommendations for the patient
3. An urgency level (Low, Medium, High) indicating if immediate medical attention is needed

Symptoms: %s

Respond with exactly one JSON object and nothing else, using this structure:
{
  "possibleConditions": ["condition1", "condition2"],
  "recommendations": "your recommendations here",
  "urgency": "Low" | "Medium" | "High"
}

Note: This is not a medical diagnosis, just an informational analysis.`

const reportPrompt = "Analyze this medical report and provide a summary of the key findings, diagnoses, and recommendations."

type AnalysisUsecase interface {
	AnalyzeSymptoms(ctx context.Context, req *dto.AnalyzeSymptomsRequest) (*dto.SymptomAnalysisResponse, error)
	AnalyzeReport(ctx context.Context, data []byte) (*dto.ReportAnalysisResponse, error)
}

type analysisUsecase struct {
	log       *logrus.Logger
	generator gateway.TextGenerator
	validator *validator.CustomValidator
	maxBytes  int64
}

func NewAnalysisUsecase(
	log *logrus.Logger,
	generator gateway.TextGenerator,
	validator *validator.CustomValidator,
	maxBytes int64,
) AnalysisUsecase {
	return &analysisUsecase{
		log:       log,
		generator: generator,
		validator: validator,
		maxBytes:  maxBytes,
	}
}

func (u *analysisUsecase) AnalyzeSymptoms(ctx context.Context, req *dto.AnalyzeSymptomsRequest) (*dto.SymptomAnalysisResponse, error) {
	text, err := u.generator.GenerateText(ctx, fmt.Sprintf(symptomPrompt, strings.TrimSpace(req.Symptoms)))
	if err != nil {
		return nil, u.generatorError("analyze symptoms", err)
	}

	var result dto.SymptomAnalysisResponse
	if err := decodeStrict(text, &result); err != nil {
		u.log.Warnf("Malformed symptom analysis: %+v", err)
		return nil, ErrMalformedResponse
	}
	if err := u.validator.Validate(&result); err != nil {
		u.log.Warnf("Symptom analysis failed schema validation: %+v", err)
		return nil, ErrMalformedResponse
	}

	return &result, nil
}

func (u *analysisUsecase) AnalyzeReport(ctx context.Context, data []byte) (*dto.ReportAnalysisResponse, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if u.maxBytes > 0 && int64(len(data)) > u.maxBytes {
		return nil, ErrFileTooLarge
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedReportTypes...) {
		u.log.Infof("Rejected report upload of type %s", mtype.String())
		return nil, ErrUnsupportedFileType
	}

	// Parameters such as charset are not accepted by the model API
	mimeType := strings.SplitN(mtype.String(), ";", 2)[0]

	text, err := u.generator.GenerateText(ctx, reportPrompt, gateway.Attachment{
		MIMEType: mimeType,
		Data:     data,
	})
	if err != nil {
		return nil, u.generatorError("analyze report", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrMalformedResponse
	}

	return &dto.ReportAnalysisResponse{Analysis: text}, nil
}

func (u *analysisUsecase) generatorError(op string, err error) error {
	if errors.Is(err, gateway.ErrGeneratorUnavailable) {
		return err
	}
	u.log.Errorf("Failed to %s: %+v", op, err)
	return fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
}

// decodeStrict accepts exactly one JSON object, optionally inside a single
// markdown code fence. Unknown fields and trailing data are rejected.
func decodeStrict(text string, v interface{}) error {
	body := stripCodeFence(strings.TrimSpace(text))

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return errors.New("unexpected data after JSON object")
	}
	return nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := s[3 : len(s)-3]
	// Drop the info string ("json") up to the first newline
	if i := strings.IndexByte(inner, '\n'); i >= 0 {
		info := strings.TrimSpace(inner[:i])
		if info != "" && info != "json" && info != "JSON" {
			return s
		}
		inner = inner[i+1:]
	} else {
		return s
	}
	if strings.Contains(inner, "```") {
		return s
	}
	return strings.TrimSpace(inner)
}
