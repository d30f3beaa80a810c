package bookings

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewServiceRequiresDatabase(t *testing.T) {
	_, err := NewService(ServiceConfig{})
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("expected service error, got %v", err)
	}
	if serviceErr.Code() != "bookings.service.new.missing_database" {
		t.Fatalf("unexpected error code %s", serviceErr.Code())
	}
}

func TestZeroServiceReportsMissingDatabase(t *testing.T) {
	service := &Service{}
	ctx := context.Background()

	_, listErr := service.List(ctx, nil, nil)
	_, createErr := service.Create(ctx, BookingRequest{Name: "Alice", Start: "2024-01-10", End: "2024-01-12"})
	_, updateErr := service.Update(ctx, 1, BookingRequest{Name: "Alice", Start: "2024-01-10", End: "2024-01-12"})
	_, deleteErr := service.Delete(ctx, 1, "")

	expected := map[string]error{
		"bookings.list.missing_database":   listErr,
		"bookings.create.missing_database": createErr,
		"bookings.update.missing_database": updateErr,
		"bookings.delete.missing_database": deleteErr,
	}
	for code, err := range expected {
		var serviceErr *ServiceError
		if !errors.As(err, &serviceErr) || serviceErr.Code() != code {
			t.Fatalf("expected %s, got %v", code, err)
		}
	}
	if service.HealthCheck(ctx) {
		t.Fatalf("expected health check to fail without a database")
	}
}

func TestValidateRequest(t *testing.T) {
	service, _ := newTestService(t, "")

	testCases := []struct {
		name    string
		request BookingRequest
		wantErr error
	}{
		{name: "valid", request: BookingRequest{Name: "Alice", Start: "2024-01-10", End: "2024-01-12"}},
		{name: "single-day", request: BookingRequest{Name: "Alice", Start: "2024-01-10", End: "2024-01-10"}},
		{name: "blank-name", request: BookingRequest{Name: "   ", Start: "2024-01-10", End: "2024-01-12"}, wantErr: ErrMissingFields},
		{name: "missing-start", request: BookingRequest{Name: "Alice", End: "2024-01-12"}, wantErr: ErrMissingFields},
		{name: "missing-end", request: BookingRequest{Name: "Alice", Start: "2024-01-10"}, wantErr: ErrMissingFields},
		{name: "long-name", request: BookingRequest{Name: strings.Repeat("x", maxNameLength+1), Start: "2024-01-10", End: "2024-01-12"}, wantErr: ErrNameTooLong},
		{name: "bad-start", request: BookingRequest{Name: "Alice", Start: "soon", End: "2024-01-12"}, wantErr: ErrInvalidDate},
		{name: "bad-end", request: BookingRequest{Name: "Alice", Start: "2024-01-10", End: "2024-01-32"}, wantErr: ErrInvalidDate},
		{name: "reversed", request: BookingRequest{Name: "Alice", Start: "2024-01-12", End: "2024-01-10"}, wantErr: ErrInvalidRange},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			input, err := service.validateRequest(testCase.request)
			if testCase.wantErr != nil {
				if !errors.Is(err, testCase.wantErr) {
					t.Fatalf("expected %v, got %v", testCase.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if input.name != strings.TrimSpace(testCase.request.Name) {
				t.Fatalf("unexpected name %q", input.name)
			}
		})
	}
}

func TestValidateRequestTrimsName(t *testing.T) {
	service, _ := newTestService(t, "")
	input, err := service.validateRequest(BookingRequest{Name: "  Alice \t", Start: "2024-01-10", End: "2024-01-12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.name != "Alice" {
		t.Fatalf("expected trimmed name, got %q", input.name)
	}
}

func TestValidateRequestChecksAccessCodeBeforeFields(t *testing.T) {
	service, _ := newTestService(t, "secret")

	_, err := service.validateRequest(BookingRequest{AccessCode: "wrong"})
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected invalid code before field validation, got %v", err)
	}

	_, err = service.validateRequest(BookingRequest{AccessCode: "secret"})
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected missing fields once the code matches, got %v", err)
	}
}

func TestParseRange(t *testing.T) {
	from, to, err := ParseRange("2024-01-11", "2024-01-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from == nil || to == nil || from.String() != "2024-01-11" || to.String() != "2024-01-12" {
		t.Fatalf("unexpected bounds %v %v", from, to)
	}

	for _, bounds := range [][2]string{{"", ""}, {"2024-01-11", ""}, {"", "2024-01-12"}} {
		from, to, err := ParseRange(bounds[0], bounds[1])
		if err != nil || from != nil || to != nil {
			t.Fatalf("expected open range for %v, got %v %v %v", bounds, from, to, err)
		}
	}

	if _, _, err := ParseRange("2024-01-11", "later"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected invalid date, got %v", err)
	}
}
