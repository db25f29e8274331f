package converter

import (
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
)

func MedicalRecordToResponse(r *entity.MedicalRecord) *dto.MedicalRecordResponse {
	if r == nil {
		return nil
	}

	return &dto.MedicalRecordResponse{
		ID:         r.ID,
		PatientID:  r.PatientID,
		DoctorID:   r.DoctorID,
		DoctorName: r.DoctorName,
		Date:       r.Date.Format(entity.DateLayout),
		Diagnosis:  r.Diagnosis,
		Treatment:  r.Treatment,
		CreatedAt:  r.CreatedAt,
	}
}

func MedicalRecordsToResponses(records []entity.MedicalRecord) []dto.MedicalRecordResponse {
	responses := make([]dto.MedicalRecordResponse, len(records))
	for i := range records {
		responses[i] = *MedicalRecordToResponse(&records[i])
	}
	return responses
}
