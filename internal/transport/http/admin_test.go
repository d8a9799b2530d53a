package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aggarwalmoksh/event-management-sem1/internal/app"
	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeAdmin struct {
	createdEvent app.CreateEventInput
	createdZone  app.CreateZoneInput
	createdSeat  app.CreateSeatInput
	err          error
}

func (f *fakeAdmin) CreateEvent(_ context.Context, in app.CreateEventInput) (domain.Event, error) {
	f.createdEvent = in
	if f.err != nil {
		return domain.Event{}, f.err
	}
	published := in.Published == nil || *in.Published
	return domain.Event{ID: "event-1", Name: in.Name, Layout: in.Layout, Published: published}, nil
}

func (f *fakeAdmin) ListEvents(context.Context) ([]domain.Event, error) {
	return []domain.Event{
		{ID: "event-1", Name: "Festival", Layout: domain.LayoutZoned, Published: true},
		{ID: "event-2", Name: "Preview", Layout: domain.LayoutZoned},
	}, f.err
}

func (f *fakeAdmin) ListUpcomingEvents(context.Context) ([]domain.Event, error) {
	return []domain.Event{{ID: "event-1", Name: "Festival", Layout: domain.LayoutZoned, Published: true}}, f.err
}

func (f *fakeAdmin) CreateZone(_ context.Context, in app.CreateZoneInput) (domain.Zone, error) {
	f.createdZone = in
	if f.err != nil {
		return domain.Zone{}, f.err
	}
	return domain.Zone{ID: "zone-1", EventID: in.EventID, Name: in.Name, Capacity: in.Capacity, Price: in.Price}, nil
}

func (f *fakeAdmin) ListZones(_ context.Context, eventID string) ([]domain.Zone, error) {
	return []domain.Zone{{ID: "zone-1", EventID: eventID, Name: "Gold", Capacity: 10, Price: decimal.NewFromInt(450)}}, f.err
}

func (f *fakeAdmin) CreateSeat(_ context.Context, in app.CreateSeatInput) (domain.Seat, error) {
	f.createdSeat = in
	if f.err != nil {
		return domain.Seat{}, f.err
	}
	return domain.Seat{ID: "seat-1", EventID: in.EventID, Row: in.Row, Number: in.Number, Category: in.Category, Price: in.Price, Available: true}, nil
}

func (f *fakeAdmin) ListSeats(_ context.Context, eventID string) ([]domain.Seat, error) {
	return []domain.Seat{{ID: "seat-1", EventID: eventID, Row: "B", Number: 7, Category: "Premium", Price: decimal.NewFromInt(900), Available: true}}, f.err
}

func (f *fakeAdmin) ExportBookings(_ context.Context, eventID string) (app.BookingExport, error) {
	if f.err != nil {
		return app.BookingExport{}, f.err
	}
	return app.BookingExport{
		Event: domain.Event{ID: eventID, Name: "Festival"},
		Bookings: []domain.Booking{{
			ID: "b-1", ZoneID: "zone-1", Quantity: 2, TotalPrice: decimal.NewFromInt(900),
			Status: domain.BookingStatusPending, CreatedAt: time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
		}},
		Items: map[string]string{"zone-1": "Gold"},
	}, nil
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleAdminEvents(t *testing.T) {
	t.Parallel()

	svc := &fakeAdmin{}
	handler := HandleAdminEvents(svc)

	rec := serve(handler, http.MethodPost, "/admin/events", `{"name":"Recital","starts_at":"2025-02-01T10:00:00Z","layout":"seated"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, domain.LayoutSeated, svc.createdEvent.Layout)
	require.NotNil(t, svc.createdEvent.StartsAt)
	assert.True(t, svc.createdEvent.StartsAt.Equal(time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)))

	assert.Nil(t, svc.createdEvent.Published)
	assert.Contains(t, rec.Body.String(), `"published":true`)

	rec = serve(handler, http.MethodPost, "/admin/events", `{"name":"Preview","starts_at":"2025-02-01T10:00:00Z","published":false}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, svc.createdEvent.Published)
	assert.False(t, *svc.createdEvent.Published)
	assert.Contains(t, rec.Body.String(), `"published":false`)

	rec = serve(handler, http.MethodGet, "/admin/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"layout":"zoned"`)
	assert.Contains(t, rec.Body.String(), `"name":"Preview"`, "admin listing includes drafts")

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing name", `{"layout":"zoned"}`, http.StatusBadRequest, codeMissingRequiredField},
		{"bad layout", `{"name":"X","layout":"standing"}`, http.StatusBadRequest, codeValidationFailed},
		{"bad starts_at", `{"name":"X","starts_at":"tomorrow"}`, http.StatusBadRequest, codeValidationFailed},
		{"not json", `name=X`, http.StatusBadRequest, codeInvalidRequestBody},
	}
	for _, tt := range tests {
		rec := serve(handler, http.MethodPost, "/admin/events", tt.body)
		assert.Equal(t, tt.status, rec.Code, tt.name)
		assert.Contains(t, rec.Body.String(), tt.code, tt.name)
	}

	rec = serve(handler, http.MethodDelete, "/admin/events", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleListEvents(t *testing.T) {
	t.Parallel()

	rec := serve(HandleListEvents(&fakeAdmin{}), http.MethodGet, "/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Festival"`)
	assert.NotContains(t, rec.Body.String(), `"name":"Preview"`)

	rec = serve(HandleListEvents(&fakeAdmin{}), http.MethodPost, "/events", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleAdminEventResources_Zones(t *testing.T) {
	t.Parallel()

	svc := &fakeAdmin{}
	handler := HandleAdminEventResources(svc)

	rec := serve(handler, http.MethodPost, "/admin/events/event-1/zones", `{"name":"Gold","capacity":100,"price":"1350.5"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "event-1", svc.createdZone.EventID)
	assert.True(t, svc.createdZone.Price.Equal(decimal.RequireFromString("1350.50")))
	assert.Contains(t, rec.Body.String(), `"price":"1350.50"`)

	rec = serve(handler, http.MethodGet, "/admin/events/event-1/zones", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price":"450.00"`)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"zero capacity", `{"name":"Gold","capacity":0,"price":"10"}`, http.StatusBadRequest, codeValidationFailed},
		{"negative price", `{"name":"Gold","capacity":5,"price":"-1"}`, http.StatusBadRequest, codeValidationFailed},
		{"three decimals", `{"name":"Gold","capacity":5,"price":"1.005"}`, http.StatusBadRequest, codeValidationFailed},
		{"missing price", `{"name":"Gold","capacity":5}`, http.StatusBadRequest, codeMissingRequiredField},
	}
	for _, tt := range tests {
		rec := serve(handler, http.MethodPost, "/admin/events/event-1/zones", tt.body)
		assert.Equal(t, tt.status, rec.Code, tt.name)
		assert.Contains(t, rec.Body.String(), tt.code, tt.name)
	}
}

func TestHandleAdminEventResources_ServiceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		path   string
		body   string
		status int
		code   string
	}{
		{"zone on seated event", domain.ErrLayoutMismatch, "/admin/events/e/zones", `{"name":"Gold","capacity":5,"price":"1"}`, http.StatusUnprocessableEntity, codeLayoutMismatch},
		{"duplicate zone", domain.ErrZoneAlreadyExists, "/admin/events/e/zones", `{"name":"Gold","capacity":5,"price":"1"}`, http.StatusConflict, codeZoneAlreadyExists},
		{"duplicate seat", domain.ErrSeatAlreadyExists, "/admin/events/e/seats", `{"row":"A","number":1,"price":"1"}`, http.StatusConflict, codeSeatAlreadyExists},
		{"unknown event", domain.ErrEventNotFound, "/admin/events/e/seats", `{"row":"A","number":1,"price":"1"}`, http.StatusNotFound, codeEventNotFound},
		{"bad id", domain.ErrInvalidID, "/admin/events/e/bookings/export", "", http.StatusBadRequest, codeInvalidID},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			method := http.MethodPost
			if tt.body == "" {
				method = http.MethodGet
			}
			rec := serve(HandleAdminEventResources(&fakeAdmin{err: tt.err}), method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
		})
	}
}

func TestHandleAdminEventResources_Seats(t *testing.T) {
	t.Parallel()

	svc := &fakeAdmin{}
	handler := HandleAdminEventResources(svc)

	rec := serve(handler, http.MethodPost, "/admin/events/event-1/seats", `{"row":"c","number":14,"category":"Balcony","price":"750"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 14, svc.createdSeat.Number)
	assert.Equal(t, "Balcony", svc.createdSeat.Category)

	rec = serve(handler, http.MethodGet, "/admin/events/event-1/seats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"label":"B7"`)

	rec = serve(handler, http.MethodPost, "/admin/events/event-1/seats", `{"row":"C","number":0,"price":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(handler, http.MethodGet, "/admin/events/event-1/rows", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleAdminEventResources_Export(t *testing.T) {
	t.Parallel()

	rec := serve(HandleAdminEventResources(&fakeAdmin{}), http.MethodGet, "/admin/events/event-1/bookings/export", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "bookings-event-1.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	item, err := f.GetCellValue("Bookings", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Gold", item)

	rec = serve(HandleAdminEventResources(&fakeAdmin{}), http.MethodPost, "/admin/events/event-1/bookings/export", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
