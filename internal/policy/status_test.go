package policy

import (
	"errors"
	"testing"
	"time"
)

func TestNextStatusesEnumeratesContractedActions(t *testing.T) {
	tests := []struct {
		name string
		from Status
		want []Status
	}{
		{name: "pending", from: StatusPending, want: []Status{StatusConfirmed, StatusCancelled}},
		{name: "confirmed", from: StatusConfirmed, want: []Status{StatusSeated, StatusCancelled}},
		{name: "seated", from: StatusSeated, want: []Status{StatusCompleted, StatusCancelled}},
		{name: "completedTerminal", from: StatusCompleted, want: nil},
		{name: "cancelledTerminal", from: StatusCancelled, want: nil},
		{name: "noShowTerminal", from: StatusNoShow, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStatuses(tt.from)
			if len(got) != len(tt.want) {
				t.Fatalf("NextStatuses(%s) = %v, want %v", tt.from, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("NextStatuses(%s)[%d] = %s, want %s", tt.from, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestApplyStaffRejectsUnofferedTransitions(t *testing.T) {
	// Exhaustively verify that exactly the contracted pairs are allowed.
	allowed := map[Status]map[Status]bool{
		StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed: {StatusSeated: true, StatusCancelled: true},
		StatusSeated:    {StatusCompleted: true, StatusCancelled: true},
	}
	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			got, err := ApplyStaff(from, to)
			if allowed[from][to] {
				if err != nil || got != to {
					t.Errorf("ApplyStaff(%s, %s) = (%s, %v), want (%s, nil)", from, to, got, err, to)
				}
				continue
			}
			var trErr *TransitionError
			if !errors.As(err, &trErr) {
				t.Errorf("ApplyStaff(%s, %s) error = %v, want *TransitionError", from, to, err)
			}
			if got != from {
				t.Errorf("ApplyStaff(%s, %s) moved state to %s on rejection", from, to, got)
			}
		}
	}
}

func TestApplyExternalNoShow(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		wantErr bool
	}{
		{name: "pendingSweepable", from: StatusPending, wantErr: false},
		{name: "confirmedSweepable", from: StatusConfirmed, wantErr: false},
		{name: "seatedSweepable", from: StatusSeated, wantErr: false},
		{name: "completedNotSweepable", from: StatusCompleted, wantErr: true},
		{name: "cancelledNotSweepable", from: StatusCancelled, wantErr: true},
		{name: "noShowIdempotentReject", from: StatusNoShow, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyExternal(tt.from, StatusNoShow)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyExternal(%s, NO_SHOW) error = %v, wantErr %v", tt.from, err, tt.wantErr)
			}
			if !tt.wantErr && got != StatusNoShow {
				t.Errorf("ApplyExternal(%s, NO_SHOW) = %s, want NO_SHOW", tt.from, got)
			}
		})
	}

	// external path must not be usable for ordinary transitions
	if _, err := ApplyExternal(StatusPending, StatusConfirmed); err == nil {
		t.Error("ApplyExternal(PENDING, CONFIRMED) = nil error, want rejection")
	}
}

func TestCanModifyCanCancel(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		status  Status
		startAt time.Time
		want    bool
	}{
		{name: "confirmedOneHourAhead", status: StatusConfirmed, startAt: now.Add(time.Hour), want: true},
		{name: "pendingOneHourAhead", status: StatusPending, startAt: now.Add(time.Hour), want: true},
		{name: "confirmedOneHourPast", status: StatusConfirmed, startAt: now.Add(-time.Hour), want: false},
		{name: "completedRegardlessOfTime", status: StatusCompleted, startAt: now.Add(24 * time.Hour), want: false},
		{name: "cancelledRegardlessOfTime", status: StatusCancelled, startAt: now.Add(24 * time.Hour), want: false},
		{name: "seatedNotModifiable", status: StatusSeated, startAt: now.Add(time.Hour), want: false},
		{name: "exactStartInstant", status: StatusConfirmed, startAt: now, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModify(tt.status, tt.startAt, now); got != tt.want {
				t.Errorf("CanModify(%s, %v) = %v, want %v", tt.status, tt.startAt, got, tt.want)
			}
			if got := CanCancel(tt.status, tt.startAt, now); got != tt.want {
				t.Errorf("CanCancel(%s, %v) = %v, want %v", tt.status, tt.startAt, got, tt.want)
			}
		})
	}
}

func TestApplyCustomerEditForcesPending(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(3 * time.Hour)

	for _, from := range []Status{StatusPending, StatusConfirmed} {
		got, err := ApplyCustomerEdit(from, future, now)
		if err != nil {
			t.Fatalf("ApplyCustomerEdit(%s) error = %v, want nil", from, err)
		}
		if got != StatusPending {
			t.Errorf("ApplyCustomerEdit(%s) = %s, want PENDING", from, got)
		}
	}

	for _, from := range []Status{StatusSeated, StatusCompleted, StatusCancelled, StatusNoShow} {
		if _, err := ApplyCustomerEdit(from, future, now); err == nil {
			t.Errorf("ApplyCustomerEdit(%s) = nil error, want rejection", from)
		}
	}

	// a modifiable status with an elapsed start is also rejected
	if _, err := ApplyCustomerEdit(StatusConfirmed, now.Add(-time.Minute), now); err == nil {
		t.Error("ApplyCustomerEdit with past start = nil error, want rejection")
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("NO_SHOW"); err != nil || s != StatusNoShow {
		t.Errorf("ParseStatus(NO_SHOW) = (%s, %v), want (NO_SHOW, nil)", s, err)
	}
	if _, err := ParseStatus("WAITLISTED"); err == nil {
		t.Error("ParseStatus(WAITLISTED) = nil error, want failure")
	}
}
