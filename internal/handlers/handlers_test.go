package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"paradise-vista/internal/cache"
	"paradise-vista/internal/database"
	"paradise-vista/internal/models"
	"paradise-vista/internal/services"
	"paradise-vista/internal/storage"
	"paradise-vista/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []*gomail.Message
	err  error
}

func (m *fakeMailer) DialAndSend(msgs ...*gomail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msgs...)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type stubGeo struct {
	loc *services.GeoLocation
	err error
}

func (g stubGeo) Lookup(context.Context, string) (*services.GeoLocation, error) {
	return g.loc, g.err
}

type fixture struct {
	router *gin.Engine
	deps   Deps
	mailer *fakeMailer
}

func newFixture(t *testing.T, geo services.GeoLocator) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	cm := cache.NewCacheManager("")
	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	mailer := &fakeMailer{}
	email := services.NewEmailService(mailer, "reservas@paradise.test", "Paradise", "https://wa.me/5582999990000")

	loc, err := time.LoadLocation("America/Maceio")
	require.NoError(t, err)

	reservationRepo := database.NewReservationRepository(db)
	deps := Deps{
		DB:           db,
		Cache:        cm,
		Storage:      store,
		Tracker:      services.NewVisitorTracker(database.NewVisitRepository(db), geo, cm),
		Email:        email,
		Reservations: services.NewReservationService(reservationRepo, email, cm, loc),
		Settings:     services.NewSettingsService(database.NewSectionRepository(db), cm, time.Minute),
		Analytics:    services.NewAnalyticsService(database.NewVisitRepository(db), reservationRepo, cm, time.Minute),
		WebSocket:    NewWebSocketHandler(),

		UploadBuckets: []string{"gallery", "rooms", "products"},
		UploadMaxSize: 1 << 20,
	}
	go deps.WebSocket.RunHub()
	cm.Subscribe(deps.WebSocket.BroadcastUpdate)

	return &fixture{router: NewRouter(deps), deps: deps, mailer: mailer}
}

func (f *fixture) do(method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// openWindow configures the birthday promotion for the current business month.
func (f *fixture) openWindow(t *testing.T) string {
	t.Helper()
	today := f.deps.Reservations.Today()
	w := f.do(http.MethodPut, "/api/admin/sections/"+models.BirthdaySettingsKey, map[string]interface{}{
		"availableMonth": int(today.Month()),
		"availableYear":  today.Year(),
		"maxCompanions":  3,
		"benefits":       []string{"Day use"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return today.Format("2006-01-02")
}

func TestTrackVisitorOncePerDay(t *testing.T) {
	f := newFixture(t, stubGeo{loc: &services.GeoLocation{State: "Alagoas", City: "Maceió", Country: "BR"}})

	w := f.do(http.MethodPost, "/functions/v1/track-visitor", map[string]string{"pagePath": "/spa"},
		"X-Forwarded-For", "::ffff:200.10.20.30, 10.0.0.1", "User-Agent", "Mozilla/5.0")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Alagoas", body["state"])
	assert.Equal(t, "Maceió", body["city"])
	assert.Equal(t, "BR", body["country"])

	w = f.do(http.MethodPost, "/functions/v1/track-visitor", map[string]string{"pagePath": "/"},
		"X-Forwarded-For", "200.10.20.30")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, true, body["alreadyTracked"])
	assert.Equal(t, "Already tracked today", body["message"])

	var count int64
	f.deps.DB.WriteDB.Model(&models.Visit{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestTrackVisitorGeolocationFailure(t *testing.T) {
	f := newFixture(t, stubGeo{err: errors.New("429 too many requests")})

	w := f.do(http.MethodPost, "/functions/v1/track-visitor", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Nil(t, body["state"])
	assert.Nil(t, body["city"])
	assert.Equal(t, "BR", body["country"])

	var visit models.Visit
	require.NoError(t, f.deps.DB.WriteDB.First(&visit).Error)
	assert.Equal(t, "unknown", visit.IPAddress)
	assert.Equal(t, "/", visit.PagePath)
}

func TestFunctionsPreflight(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodOptions, "/functions/v1/track-visitor", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSendBirthdayConfirmationFunction(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/functions/v1/send-birthday-confirmation", map[string]interface{}{
		"name": "Maria", "email": "maria@x.com",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])

	w = f.do(http.MethodPost, "/functions/v1/send-birthday-confirmation", map[string]interface{}{
		"name": "Maria", "email": "maria@x.com", "whatsapp": "(82) 99999-0000",
		"birthDate": "1985-09-10", "guests": 2, "preferredDate": "2026-10-25",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "maria@x.com", body["data"].(map[string]interface{})["to"])
	assert.Equal(t, 1, f.mailer.count())

	f.mailer.err = errors.New("535 authentication failed")
	w = f.do(http.MethodPost, "/functions/v1/send-birthday-confirmation", map[string]interface{}{
		"name": "Maria", "email": "maria@x.com", "whatsapp": "1",
		"birthDate": "1985-09-10", "guests": 0, "preferredDate": "2026-10-25",
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decode(t, w)["error"], "535")
}

func reservationBody(visitDate string) map[string]interface{} {
	return map[string]interface{}{
		"fullName":       "Maria Silva",
		"email":          "maria@x.com",
		"cpf":            "111.222.333-44",
		"birthDate":      "10/09/1985",
		"whatsapp":       "(82) 99999-0000",
		"companions":     "2",
		"companionNames": []string{"Ana", "Bia"},
		"visitDate":      visitDate,
	}
}

func TestSubmitReservationFlow(t *testing.T) {
	f := newFixture(t, nil)
	today := f.openWindow(t)

	w := f.do(http.MethodGet, "/api/birthday/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	settings := decode(t, w)
	assert.Equal(t, float64(3), settings["maxCompanions"])
	assert.Contains(t, settings["selectableDates"], today)

	w = f.do(http.MethodPost, "/api/reservations", reservationBody(today))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, "1985-09-10", created["birth_date"])
	assert.Equal(t, []interface{}{"Ana", "Bia"}, created["companion_names"])

	f.deps.Reservations.Wait()
	assert.Equal(t, 1, f.mailer.count())

	w = f.do(http.MethodPost, "/api/reservations", reservationBody(today))
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "cpf", decode(t, w)["field"])
}

func TestSubmitReservationValidation(t *testing.T) {
	f := newFixture(t, nil)
	today := f.openWindow(t)

	body := reservationBody(today)
	body["birthDate"] = "5/3/90"
	w := f.do(http.MethodPost, "/api/reservations", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "birthDate", decode(t, w)["field"])

	body = reservationBody(today)
	body["companionNames"] = []string{"Ana", ""}
	w = f.do(http.MethodPost, "/api/reservations", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "companionNames[1]", decode(t, w)["field"])

	body = reservationBody("1999-01-01")
	w = f.do(http.MethodPost, "/api/reservations", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "visitDate", decode(t, w)["field"])

	w = f.do(http.MethodPost, "/api/reservations", "{not json")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	f.deps.DB.WriteDB.Model(&models.BirthdayReservation{}).Count(&count)
	assert.Zero(t, count)
}

func TestAdminReservationLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	today := f.openWindow(t)

	w := f.do(http.MethodPost, "/api/reservations", reservationBody(today))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)
	f.deps.Reservations.Wait()

	w = f.do(http.MethodGet, "/api/admin/reservations?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = f.do(http.MethodPatch, "/api/admin/reservations/"+id+"/status", map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "approved", decode(t, w)["status"])

	w = f.do(http.MethodPatch, "/api/admin/reservations/"+id+"/status", map[string]string{"status": "pending"})
	require.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodPatch, "/api/admin/reservations/"+id+"/status", map[string]string{"status": "completed", "notes": "ok"})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/admin/reservations/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,status,full_name"))
	assert.Contains(t, lines[1], "Maria Silva")
	assert.Contains(t, lines[1], "10/09/1985")

	w = f.do(http.MethodDelete, "/api/admin/reservations/"+id, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(http.MethodGet, "/api/admin/reservations/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSectionsCRUD(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPut, "/api/admin/sections/hero", `{"title":"Paradise","subtitle":"Vista do Atlântico"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(http.MethodGet, "/api/sections/hero", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Paradise", decode(t, w)["title"])

	w = f.do(http.MethodPut, "/api/admin/sections/hero", `{broken`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPut, "/api/admin/sections/"+models.BirthdaySettingsKey, `{"availableMonth":13,"availableYear":2026}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodDelete, "/api/admin/sections/hero", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(http.MethodGet, "/api/sections/hero", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoomsContentCRUD(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/admin/rooms", map[string]interface{}{"description": "no name"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/admin/rooms", map[string]interface{}{
		"id": "client-chosen", "name": "Suíte Master", "price": 890.5, "capacity": 3,
		"amenities": []string{"Hidro", "Vista mar"}, "display_order": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	room := decode(t, w)
	id := room["id"].(string)
	assert.NotEqual(t, "client-chosen", id)
	assert.Equal(t, true, room["is_active"])

	w = f.do(http.MethodPost, "/api/admin/rooms", map[string]interface{}{"name": "Chalé", "is_active": false, "capacity": 0})
	require.Equal(t, http.StatusCreated, w.Code)
	hidden := decode(t, w)
	assert.Equal(t, false, hidden["is_active"])
	assert.Equal(t, float64(0), hidden["capacity"])

	w = f.do(http.MethodGet, "/api/admin/rooms/"+hidden["id"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["is_active"])

	w = f.do(http.MethodGet, "/api/rooms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = f.do(http.MethodGet, "/api/admin/rooms", nil)
	assert.Equal(t, float64(2), decode(t, w)["total"])

	w = f.do(http.MethodPatch, "/api/admin/rooms/"+id, map[string]interface{}{"price": 950})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)
	assert.Equal(t, float64(950), updated["price"])
	assert.Equal(t, "Suíte Master", updated["name"])

	w = f.do(http.MethodDelete, "/api/admin/rooms/"+id, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(http.MethodGet, "/api/admin/rooms/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = f.do(http.MethodPatch, "/api/admin/rooms/"+id, map[string]interface{}{"price": 1000})
	require.Equal(t, http.StatusNotFound, w.Code)
	w = f.do(http.MethodGet, "/api/admin/rooms/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoomDefaultsWhenFieldsOmitted(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/admin/rooms", map[string]interface{}{"name": "Standard"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	room := decode(t, w)
	assert.Equal(t, true, room["is_active"])
	assert.Equal(t, float64(2), room["capacity"])

	w = f.do(http.MethodGet, "/api/rooms", nil)
	assert.Equal(t, float64(1), decode(t, w)["total"])
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadAndGalleryDelete(t *testing.T) {
	f := newFixture(t, nil)
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

	body, contentType := multipartUpload(t, "praia.png", png)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads/gallery", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	upload := decode(t, w)
	objectPath := upload["path"].(string)
	assert.True(t, strings.HasPrefix(objectPath, "gallery/"))
	assert.True(t, strings.HasSuffix(objectPath, ".png"))

	exists, err := f.deps.Storage.Exists(context.Background(), objectPath)
	require.NoError(t, err)
	assert.True(t, exists)

	w = f.do(http.MethodPost, "/api/admin/gallery", map[string]interface{}{
		"title": "Praia", "image_url": upload["url"], "storage_path": objectPath,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	itemID := decode(t, w)["id"].(string)

	w = f.do(http.MethodDelete, "/api/admin/gallery/"+itemID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	exists, _ = f.deps.Storage.Exists(context.Background(), objectPath)
	assert.False(t, exists, "gallery delete removes the stored object")
}

func TestUploadRejections(t *testing.T) {
	f := newFixture(t, nil)

	body, contentType := multipartUpload(t, "notes.txt", []byte("just text"))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads/gallery", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, contentType = multipartUpload(t, "a.png", []byte("\x89PNG\r\n\x1a\n"))
	req = httptest.NewRequest(http.MethodPost, "/api/admin/uploads/private", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodDelete, "/api/admin/uploads/gallery/../../etc/passwd", nil)
	assert.NotEqual(t, http.StatusNoContent, w.Code)
}

func TestAnalyticsEndpoints(t *testing.T) {
	f := newFixture(t, stubGeo{loc: &services.GeoLocation{State: "Alagoas", City: "Maceió", Country: "BR"}})

	for i := 1; i <= 3; i++ {
		w := f.do(http.MethodPost, "/functions/v1/track-visitor", map[string]string{"pagePath": "/"},
			"X-Real-IP", fmt.Sprintf("200.0.0.%d", i))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := f.do(http.MethodGet, "/api/admin/analytics/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode(t, w)
	assert.Equal(t, float64(3), summary["total_visits"])
	assert.Equal(t, float64(3), summary["visits_today"])

	w = f.do(http.MethodGet, "/api/admin/analytics/daily?days=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	days := decode(t, w)["days"].([]interface{})
	require.Len(t, days, 3)
	assert.Equal(t, float64(3), days[2].(map[string]interface{})["visits"])

	w = f.do(http.MethodGet, "/api/admin/analytics/regions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	regions := decode(t, w)["regions"].([]interface{})
	require.Len(t, regions, 1)
	assert.Equal(t, "Alagoas", regions[0].(map[string]interface{})["state"])
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "local_cache_only", body["services"].(map[string]interface{})["redis"])
}

func TestClientAddress(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded first entry", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"mapped ipv6", map[string]string{"X-Forwarded-For": "::ffff:203.0.113.7"}, "203.0.113.7"},
		{"loopback", map[string]string{"X-Real-IP": "::1"}, "127.0.0.1"},
		{"real ip fallback", map[string]string{"X-Real-IP": "198.51.100.2"}, "198.51.100.2"},
		{"ipv6 kept", map[string]string{"X-Real-IP": "2001:db8::1"}, "2001:db8::1"},
		{"no headers", map[string]string{}, "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, ClientAddress(req))
		})
	}
}
