package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"acredge.in/internal/assets"
	"acredge.in/internal/auth"
	"acredge.in/internal/catalog"
	"acredge.in/internal/docstore"
)

const (
	adminOrigin = "https://admin.acredge.in"
	userOrigin  = "https://www.acredge.in"
	testOTP     = "123456"
)

type silentSender struct{}

func (silentSender) Send(ctx context.Context, identity, code string) error { return nil }

func newTestAPI(t *testing.T) (*API, *assets.Memory) {
	t.Helper()
	docs := docstore.NewMemory()
	store := assets.NewMemory("test-bucket")
	authSvc := auth.NewService(docs, "test-secret", "acredge.in",
		auth.WithOrigins(adminOrigin, userOrigin),
		auth.WithCodeGenerator(func() string { return testOTP }),
		auth.WithCodeSender(silentSender{}),
	)
	catalogSvc := catalog.NewService(docs, store)
	api := New(catalogSvc, authSvc,
		WithAllowedOrigins(adminOrigin, userOrigin),
		WithUserOrigin(userOrigin),
	)
	return api, store
}

func do(t *testing.T, api *API, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// login drives the OTP flow and returns the session token.
func login(t *testing.T, api *API, identity string) string {
	t.Helper()
	var rec *httptest.ResponseRecorder
	if strings.Contains(identity, "@") {
		rec = do(t, api, jsonRequest(t, http.MethodPost, "/api/auth/verify-email", map[string]string{"email": identity}))
	} else {
		rec = do(t, api, jsonRequest(t, http.MethodPost, "/api/auth/verify-phone", map[string]string{"phone": identity}))
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("request otp: %d %s", rec.Code, rec.Body)
	}

	body := map[string]string{"otp": testOTP}
	if strings.Contains(identity, "@") {
		body["email"] = identity
	} else {
		body["phone"] = identity
	}
	rec = do(t, api, jsonRequest(t, http.MethodPost, "/api/auth/verify-otp", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("verify otp: %d %s", rec.Code, rec.Body)
	}
	var session struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&session); err != nil {
		t.Fatal(err)
	}
	if session.Token == "" {
		t.Fatal("no token issued")
	}
	if cookies := rec.Result().Cookies(); len(cookies) == 0 || cookies[0].Name != sessionCookie {
		t.Fatal("session cookie not set")
	}
	return session.Token
}

type upload struct {
	field string
	name  string
	data  []byte
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, uploads []upload) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, u := range uploads {
		part, err := mw.CreateFormFile(u.field, u.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(u.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func asAdmin(req *http.Request, token string) *http.Request {
	req.Header.Set("Origin", adminOrigin)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

const testDescription = "A premium development with landscaped greens, wide internal roads, and generous open space between towers."

func developerFields() map[string]string {
	return map[string]string{
		"name":              "emaar india",
		"address":           "Sector 62, Gurugram",
		"incorporationDate": "2005-04-01",
		"description":       testDescription,
		"websiteLink":       "https://www.emaar-india.com",
		"status":            "Active",
	}
}

func TestHealthz(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := do(t, api, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAnonymousCatalogRead(t *testing.T) {
	api, _ := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/developers", nil)
	req.Header.Set("Origin", userOrigin)
	rec := do(t, api, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	var items []json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatalf("decode list: %v", err)
	}
}

// Tokenless catalog reads are only open to the consumer site, not to
// arbitrary origins.
func TestAnonymousReadRejectedFromForeignOrigin(t *testing.T) {
	api, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/developers", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := do(t, api, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("foreign origin: %d, want 401, body = %s", rec.Code, rec.Body)
	}

	rec = do(t, api, httptest.NewRequest(http.MethodGet, "/api/developers", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing origin: %d, want 401", rec.Code)
	}
}

func TestMutationRequiresToken(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := do(t, api, multipartRequest(t, http.MethodPost, "/api/developers", developerFields(), nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestConsumerCannotMutate(t *testing.T) {
	api, _ := newTestAPI(t)
	token := login(t, api, "+919876543210")

	req := multipartRequest(t, http.MethodPost, "/api/developers", developerFields(), nil)
	req.Header.Set("Origin", userOrigin)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := do(t, api, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403, body = %s", rec.Code, rec.Body)
	}
}

func TestAdminTokenRejectedFromForeignOrigin(t *testing.T) {
	api, _ := newTestAPI(t)
	token := login(t, api, "admin@acredge.in")

	req := multipartRequest(t, http.MethodPost, "/api/developers", developerFields(), nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := do(t, api, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403, body = %s", rec.Code, rec.Body)
	}
}

func TestCreateDeveloper(t *testing.T) {
	api, store := newTestAPI(t)
	token := login(t, api, "admin@acredge.in")

	req := asAdmin(multipartRequest(t, http.MethodPost, "/api/developers", developerFields(), []upload{
		{field: "logoUrl", name: "logo.png", data: []byte("png-bytes")},
	}), token)
	rec := do(t, api, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	var dev struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		LogoURL   string  `json:"logoUrl"`
		CreatedBy string  `json:"createdBy"`
		UpdatedBy *string `json:"updatedBy"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&dev); err != nil {
		t.Fatal(err)
	}
	if dev.ID == "" || dev.Name != "EMAAR INDIA" {
		t.Fatalf("record = %+v", dev)
	}
	if !strings.Contains(dev.LogoURL, "/"+assets.FolderDeveloperLogo+"/") {
		t.Fatalf("LogoURL = %q", dev.LogoURL)
	}
	if dev.CreatedBy != "admin@acredge.in" || dev.UpdatedBy != nil {
		t.Fatalf("audit fields: %+v", dev)
	}
	if store.Len() != 1 {
		t.Fatalf("store holds %d objects", store.Len())
	}

	// Anonymous read from the consumer site sees the new record.
	getReq := httptest.NewRequest(http.MethodGet, "/api/developers/"+dev.ID, nil)
	getReq.Header.Set("Origin", userOrigin)
	rec = do(t, api, getReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
}

func TestCreateDeveloperValidationErrors(t *testing.T) {
	api, store := newTestAPI(t)
	token := login(t, api, "admin@acredge.in")

	fields := developerFields()
	fields["description"] = "too short"
	req := asAdmin(multipartRequest(t, http.MethodPost, "/api/developers", fields, []upload{
		{field: "logoUrl", name: "logo.png", data: []byte("png")},
	}), token)
	rec := do(t, api, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	var resp struct {
		Errors []string `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Errors) == 0 {
		t.Fatal("no field errors returned")
	}
	if store.Len() != 0 {
		t.Fatalf("rejected create left %d objects", store.Len())
	}
}

func TestUploadLimits(t *testing.T) {
	api, store := newTestAPI(t)
	token := login(t, api, "admin@acredge.in")

	big := make([]byte, 2<<20+1)
	req := asAdmin(multipartRequest(t, http.MethodPost, "/api/developers", developerFields(), []upload{
		{field: "logoUrl", name: "logo.png", data: big},
	}), token)
	rec := do(t, api, req)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "size") {
		t.Fatalf("oversized file: %d %s", rec.Code, rec.Body)
	}

	req = asAdmin(multipartRequest(t, http.MethodPost, "/api/developers", developerFields(), []upload{
		{field: "logoUrl", name: "logo.svg", data: []byte("svg")},
	}), token)
	rec = do(t, api, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad extension: %d %s", rec.Code, rec.Body)
	}
	if store.Len() != 0 {
		t.Fatalf("rejected uploads stored %d objects", store.Len())
	}
}

func TestDeleteDeveloperRemovesAssets(t *testing.T) {
	api, store := newTestAPI(t)
	token := login(t, api, "admin@acredge.in")

	req := asAdmin(multipartRequest(t, http.MethodPost, "/api/developers", developerFields(), []upload{
		{field: "logoUrl", name: "logo.png", data: []byte("png")},
	}), token)
	rec := do(t, api, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	var dev struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&dev); err != nil {
		t.Fatal(err)
	}

	rec = do(t, api, asAdmin(httptest.NewRequest(http.MethodDelete, "/api/developers/"+dev.ID, nil), token))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body)
	}
	if store.Len() != 0 {
		t.Fatalf("store holds %d objects after delete", store.Len())
	}

	rec = do(t, api, asAdmin(httptest.NewRequest(http.MethodDelete, "/api/developers/"+dev.ID, nil), token))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: %d", rec.Code)
	}
}

func TestCheckAuthAndLogout(t *testing.T) {
	api, _ := newTestAPI(t)
	token := login(t, api, "admin@acredge.in")

	rec := do(t, api, asAdmin(httptest.NewRequest(http.MethodGet, "/api/auth/check-auth", nil), token))
	if rec.Code != http.StatusOK {
		t.Fatalf("check-auth: %d %s", rec.Code, rec.Body)
	}
	var who struct {
		Kind     string `json:"kind"`
		Identity string `json:"identity"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&who); err != nil {
		t.Fatal(err)
	}
	if who.Kind != "admin" || who.Identity != "admin@acredge.in" {
		t.Fatalf("who = %+v", who)
	}

	rec = do(t, api, asAdmin(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), token))
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: %d %s", rec.Code, rec.Body)
	}

	rec = do(t, api, asAdmin(httptest.NewRequest(http.MethodGet, "/api/auth/check-auth", nil), token))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("check-auth after logout: %d", rec.Code)
	}
}

func TestSessionCookieAuthenticates(t *testing.T) {
	api, _ := newTestAPI(t)
	token := login(t, api, "admin@acredge.in")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-auth", nil)
	req.Header.Set("Origin", adminOrigin)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	rec := do(t, api, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cookie auth: %d %s", rec.Code, rec.Body)
	}
}

func TestDashboardStats(t *testing.T) {
	api, _ := newTestAPI(t)
	token := login(t, api, "admin@acredge.in")

	req := asAdmin(multipartRequest(t, http.MethodPost, "/api/developers", developerFields(), []upload{
		{field: "logoUrl", name: "logo.png", data: []byte("png")},
	}), token)
	if rec := do(t, api, req); rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}

	rec := do(t, api, asAdmin(httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil), token))
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: %d %s", rec.Code, rec.Body)
	}
	var stats catalog.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.Developers.Total != 1 || stats.Developers.Active != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	rec = do(t, api, asAdmin(httptest.NewRequest(http.MethodGet, "/api/dashboard/developers/stats", nil), token))
	if rec.Code != http.StatusOK {
		t.Fatalf("kind stats: %d %s", rec.Code, rec.Body)
	}

	// Dashboard is staff-only.
	rec = do(t, api, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous stats: %d", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	api, _ := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	req.Header.Set("Origin", userOrigin)
	rec := do(t, api, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	api, _ := newTestAPI(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/developers", nil)
	req.Header.Set("Origin", adminOrigin)
	rec := do(t, api, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != adminOrigin {
		t.Fatalf("allow-origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("credentials not allowed")
	}
}
