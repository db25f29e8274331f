package entity

import "testing"

func TestAppointment_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{AppointmentStatusScheduled, AppointmentStatusCompleted, true},
		{AppointmentStatusScheduled, AppointmentStatusCancelled, true},
		{AppointmentStatusScheduled, AppointmentStatusScheduled, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCancelled, AppointmentStatusCompleted, false},
		{AppointmentStatusCancelled, AppointmentStatusScheduled, false},
	}
	for _, tt := range tests {
		a := &Appointment{Status: tt.from}
		if got := a.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseAppointmentStatus(t *testing.T) {
	if s, ok := ParseAppointmentStatus("cancelled"); !ok || s != AppointmentStatusCancelled {
		t.Errorf("expected cancelled, got %q ok=%v", s, ok)
	}
	if _, ok := ParseAppointmentStatus("done"); ok {
		t.Error("expected unknown status to be rejected")
	}
}

func TestDoctorProfile_IsBookable(t *testing.T) {
	p := &DoctorProfile{Verified: true, User: User{IsActive: true}}
	if !p.IsBookable() {
		t.Error("verified active doctor should be bookable")
	}
	p.Verified = false
	if p.IsBookable() {
		t.Error("unverified doctor should not be bookable")
	}
	p.Verified = true
	p.User.IsActive = false
	if p.IsBookable() {
		t.Error("inactive doctor should not be bookable")
	}
}
