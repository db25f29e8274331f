package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/gateway"
	"mediconnect/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var errStore = errors.New("store unavailable")

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fixedClock returns a UTC clock pinned to the given date at 08:00
func fixedClock(date string) Clock {
	t, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		panic(err)
	}
	t = t.Add(8 * time.Hour)
	return NewClock(time.UTC, func() time.Time { return t })
}

// -- Mock Repositories --

type mockUserRepo struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*entity.User
	findErr error
	planErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.users[id], nil
}

func (m *mockUserRepo) UpdatePlan(_ context.Context, id uuid.UUID, plan string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.planErr != nil {
		return m.planErr
	}
	if u, ok := m.users[id]; ok {
		u.Plan = plan
	}
	return nil
}

type mockDoctorRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*entity.DoctorProfile
	findErr  error
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{profiles: make(map[uuid.UUID]*entity.DoctorProfile)}
}

func (m *mockDoctorRepo) add(name string, verified bool) uuid.UUID {
	id := uuid.New()
	m.profiles[id] = &entity.DoctorProfile{
		UserID:    id,
		Specialty: "Cardiology",
		City:      "Boston",
		Verified:  verified,
		User:      entity.User{ID: id, FullName: name, Role: entity.RoleDoctor, IsActive: true},
	}
	return id
}

func (m *mockDoctorRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockDoctorRepo) FindAll(_ context.Context, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.DoctorProfile
	for _, p := range m.profiles {
		if filter.Verified != nil && p.Verified != *filter.Verified {
			continue
		}
		if filter.Specialty != "" && !strings.EqualFold(p.Specialty, filter.Specialty) {
			continue
		}
		if filter.City != "" && !strings.EqualFold(p.City, filter.City) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockDoctorRepo) SetVerified(_ context.Context, userID uuid.UUID, verified bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return 0, nil
	}
	p.Verified = verified
	return 1, nil
}

// mockAppointmentRepo enforces the one-active-appointment-per-slot rule the
// way the partial unique index does
type mockAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*entity.Appointment
	createErr    error
	findErr      error
	// skipSlotCheck makes FindActiveBySlot report a free slot so that the
	// Create uniqueness path is reached
	skipSlotCheck bool
	// lostUpdate makes UpdateStatusFrom match no rows, as when another
	// request moved the appointment between read and write
	lostUpdate bool
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *entity.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.appointments {
		if existing.DoctorID == a.DoctorID && existing.Date.Equal(a.Date) &&
			existing.Time == a.Time && existing.Status != entity.AppointmentStatusCancelled {
			return repository.ErrDuplicateSlot
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *mockAppointmentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	a, ok := m.appointments[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *mockAppointmentRepo) FindActiveBySlot(_ context.Context, doctorID uuid.UUID, date time.Time, timeLabel string) (*entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.skipSlotCheck {
		return nil, nil
	}
	for _, a := range m.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Time == timeLabel &&
			a.Status != entity.AppointmentStatusCancelled {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockAppointmentRepo) FindUpcomingByPatient(_ context.Context, patientID uuid.UUID, from time.Time) ([]entity.Appointment, error) {
	return m.filter(func(a *entity.Appointment) bool {
		return a.PatientID == patientID && !a.Date.Before(from)
	})
}

func (m *mockAppointmentRepo) FindUpcomingByDoctor(_ context.Context, doctorID uuid.UUID, from time.Time) ([]entity.Appointment, error) {
	return m.filter(func(a *entity.Appointment) bool {
		return a.DoctorID == doctorID && !a.Date.Before(from)
	})
}

func (m *mockAppointmentRepo) FindActiveByDoctorAndDate(_ context.Context, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	return m.filter(func(a *entity.Appointment) bool {
		return a.DoctorID == doctorID && a.Date.Equal(date) && a.Status != entity.AppointmentStatusCancelled
	})
}

func (m *mockAppointmentRepo) UpdateStatusFrom(_ context.Context, id uuid.UUID, from, next entity.AppointmentStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok || a.Status != from || m.lostUpdate {
		return 0, nil
	}
	a.Status = next
	return 1, nil
}

func (m *mockAppointmentRepo) ExistsForDoctorAndPatient(_ context.Context, doctorID, patientID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return false, m.findErr
	}
	for _, a := range m.appointments {
		if a.DoctorID == doctorID && a.PatientID == patientID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAppointmentRepo) filter(keep func(*entity.Appointment) bool) ([]entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []entity.Appointment
	for _, a := range m.appointments {
		if keep(a) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appointments)
}

func (m *mockAppointmentRepo) all() []entity.Appointment {
	out, _ := m.filter(func(*entity.Appointment) bool { return true })
	return out
}

type mockRecordRepo struct {
	records []entity.MedicalRecord
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{}
}

func (m *mockRecordRepo) Create(_ context.Context, r *entity.MedicalRecord) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	m.records = append(m.records, *r)
	return nil
}

func (m *mockRecordRepo) FindByPatientID(_ context.Context, patientID uuid.UUID) ([]entity.MedicalRecord, error) {
	var out []entity.MedicalRecord
	for _, r := range m.records {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, nil
}

type mockPlanRepo struct {
	plans map[string]*entity.Plan
}

func newMockPlanRepo(plans ...entity.Plan) *mockPlanRepo {
	m := &mockPlanRepo{plans: make(map[string]*entity.Plan)}
	for i := range plans {
		p := plans[i]
		m.plans[p.Name] = &p
	}
	return m
}

func (m *mockPlanRepo) FindAll(_ context.Context) ([]entity.Plan, error) {
	var out []entity.Plan
	for _, p := range m.plans {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPlanRepo) FindByName(_ context.Context, name string) (*entity.Plan, error) {
	return m.plans[name], nil
}

type mockAuditLogRepo struct {
	logs []entity.AuditLog
}

func (m *mockAuditLogRepo) Create(_ context.Context, l *entity.AuditLog) error {
	l.ID = int64(len(m.logs) + 1)
	m.logs = append(m.logs, *l)
	return nil
}

func (m *mockAuditLogRepo) FindAll(_ context.Context, limit, offset int) ([]entity.AuditLog, int64, error) {
	total := int64(len(m.logs))
	if offset >= len(m.logs) {
		return []entity.AuditLog{}, total, nil
	}
	end := offset + limit
	if end > len(m.logs) {
		end = len(m.logs)
	}
	return m.logs[offset:end], total, nil
}

func (m *mockAuditLogRepo) FindByID(_ context.Context, id int64) (*entity.AuditLog, error) {
	for i := range m.logs {
		if m.logs[i].ID == id {
			return &m.logs[i], nil
		}
	}
	return nil, nil
}

// -- Mock Services & Gateways --

type mockAuditService struct {
	mu      sync.Mutex
	actions []string
}

func (m *mockAuditService) LogCreate(_ context.Context, _ *uuid.UUID, action, _, _ string, _ interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, action)
	return nil
}

func (m *mockAuditService) LogUpdate(_ context.Context, _ *uuid.UUID, action, _, _ string, _, _ interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, action)
	return nil
}

func (m *mockAuditService) has(action string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.actions {
		if a == action {
			return true
		}
	}
	return false
}

type mockLocker struct {
	mu         sync.Mutex
	held       map[string]string
	acquireErr error
	released   int
}

func newMockLocker() *mockLocker {
	return &mockLocker{held: make(map[string]string)}
}

func (m *mockLocker) Acquire(_ context.Context, key string, _ time.Duration) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.acquireErr != nil {
		return "", false, m.acquireErr
	}
	if _, ok := m.held[key]; ok {
		return "", false, nil
	}
	token := uuid.NewString()
	m.held[key] = token
	return token, true, nil
}

func (m *mockLocker) Release(_ context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] == token {
		delete(m.held, key)
		m.released++
	}
	return nil
}

type mockEventPublisher struct {
	mu       sync.Mutex
	events   []gateway.AppointmentEvent
	err      error
	ctxErrs  []error
	deadline []bool
}

func (m *mockEventPublisher) PublishAppointmentEvent(ctx context.Context, e gateway.AppointmentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
	m.deadline = append(m.deadline, hasDeadline)
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *mockEventPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

type sessionKey struct {
	kind   gateway.TokenKind
	userID uuid.UUID
	id     string
}

type mockSessionStore struct {
	mu       sync.Mutex
	sessions map[sessionKey]bool
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[sessionKey]bool)}
}

func (m *mockSessionStore) Save(_ context.Context, kind gateway.TokenKind, userID uuid.UUID, tokenID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionKey{kind, userID, tokenID}] = true
	return nil
}

func (m *mockSessionStore) Exists(_ context.Context, kind gateway.TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[sessionKey{kind, userID, tokenID}], nil
}

func (m *mockSessionStore) Revoke(_ context.Context, kind gateway.TokenKind, userID uuid.UUID, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionKey{kind, userID, tokenID})
	return nil
}

func (m *mockSessionStore) RevokeAll(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.sessions {
		if k.userID == userID {
			delete(m.sessions, k)
		}
	}
	return nil
}

type mockPaymentGateway struct {
	sessions map[string]*gateway.CheckoutSession
	created  []gateway.CheckoutRequest
	err      error
}

func newMockPaymentGateway() *mockPaymentGateway {
	return &mockPaymentGateway{sessions: make(map[string]*gateway.CheckoutSession)}
}

func (m *mockPaymentGateway) CreateCheckoutSession(_ context.Context, req gateway.CheckoutRequest) (*gateway.CheckoutSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, req)
	id := "cs_test_" + uuid.NewString()
	s := &gateway.CheckoutSession{
		ID:            id,
		URL:           "https://checkout.example/" + id,
		Status:        "open",
		PaymentStatus: "unpaid",
		AmountTotal:   req.AmountMinor,
		Currency:      req.Currency,
		Metadata:      req.Metadata,
	}
	m.sessions[id] = s
	return s, nil
}

func (m *mockPaymentGateway) GetCheckoutSession(_ context.Context, id string) (*gateway.CheckoutSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.New("no such checkout session")
	}
	return s, nil
}

type mockGenerator struct {
	reply       string
	err         error
	prompts     []string
	attachments []gateway.Attachment
}

func (m *mockGenerator) GenerateText(_ context.Context, prompt string, attachments ...gateway.Attachment) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.attachments = append(m.attachments, attachments...)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}
