package front

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/config"
	"github.com/landbook/landbook/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conn, err := db.Open("file:" + filepath.Join(t.TempDir(), "front.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { _ = db.Close(conn) })

	r := gin.New()
	RegisterFrontRoutes(r, conn, Options{
		JWT:    config.JWTConfig{Secret: "front-secret", Expiry: time.Hour},
		Share:  config.ShareConfig{AccessExpiry: time.Hour},
		AppURL: "https://land.example.com",
	})
	return &testServer{t: t, engine: r}
}

func (s *testServer) do(method, path, token string, body any, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	out := map[string]any{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func (s *testServer) register(email string) (string, string) {
	s.t.Helper()
	w, out := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ramesh", "email": email, "password": "secret1",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	user := out["user"].(map[string]any)
	return out["token"].(string), user["id"].(string)
}

func (s *testServer) createProject(token, name, mobile string) string {
	s.t.Helper()
	w, out := s.do(http.MethodPost, "/api/projects", token, map[string]string{"name": name, "mobileNumber": mobile})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return out["project"].(map[string]any)["id"].(string)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	w, out := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", out["status"])

	w, _ = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestSessionRequired(t *testing.T) {
	s := newTestServer(t)
	for _, token := range []string{"", "garbage"} {
		w, out := s.do(http.MethodGet, "/api/projects", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperr.MsgLoginRequired, out["error"])
	}
}

func TestProjectErrorsMapToStatus(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("owner@example.com")
	s.createProject(token, "Demo", "9876543210")

	w, out := s.do(http.MethodPost, "/api/projects", token, map[string]string{"name": "Other", "mobileNumber": "12345"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.MsgMobileInvalid, out["error"])

	w, out = s.do(http.MethodPost, "/api/projects", token, map[string]string{"name": "demo", "mobileNumber": "9876543211"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperr.MsgProjectNameExists, out["error"])

	w, out = s.do(http.MethodGet, "/api/projects/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperr.MsgProjectNotFound, out["error"])

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForeignProjectIsNotFound(t *testing.T) {
	s := newTestServer(t)
	owner, _ := s.register("owner@example.com")
	stranger, _ := s.register("stranger@example.com")
	projectID := s.createProject(owner, "Demo", "9876543210")

	w, _ := s.do(http.MethodGet, "/api/projects/"+projectID, stranger, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodDelete, "/api/projects/"+projectID, stranger, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodGet, "/api/projects/"+projectID, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecordsImportExport(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("owner@example.com")
	projectID := s.createProject(token, "Demo", "9876543210")
	base := "/api/projects/" + projectID

	w, out := s.do(http.MethodPost, base+"/records", token, map[string]string{"raiyatName": "Ram", "khesraNumber": "101"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := out["project"].(map[string]any)
	records := project["landRecords"].([]any)
	require.Len(t, records, 1)
	recordID := records[0].(map[string]any)["id"].(string)

	w, out = s.do(http.MethodPut, base+"/records/"+recordID, token, map[string]string{"remarks": "checked"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := out["project"].(map[string]any)["landRecords"].([]any)[0].(map[string]any)
	assert.Equal(t, "checked", updated["remarks"])
	assert.Equal(t, "101", updated["khesraNumber"])

	w, out = s.do(http.MethodPost, base+"/import", token, map[string]any{"records": []map[string]string{
		{"raiyatName": "Sita", "khesraNumber": "201"},
		{"raiyatName": "", "khesraNumber": "202"},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, out["createdCount"])
	assert.EqualValues(t, 1, out["errorCount"])

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "records.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("रैयत का नाम,खेसरा नंबर\nMohan,301\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, base+"/import/file", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	w, _ = s.do(http.MethodGet, base+"/export?raiyat=sita", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Demo_sita_records.csv")
	assert.Contains(t, w.Body.String(), "201")
	assert.NotContains(t, w.Body.String(), "101")

	w, out = s.do(http.MethodDelete, base+"/records/"+recordID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, apperr.MsgRecordDeleted, out["message"])
}

func TestImportFileRequired(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("owner@example.com")
	projectID := s.createProject(token, "Demo", "9876543210")

	w, out := s.do(http.MethodPost, "/api/projects/"+projectID+"/import/file", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.MsgImportFileRequired, out["error"])
}

func TestShareFlow(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("owner@example.com")
	projectID := s.createProject(token, "Demo", "9876543210")
	s.do(http.MethodPost, "/api/projects/"+projectID+"/records", token, map[string]string{"raiyatName": "Ram", "khesraNumber": "101"})

	w, out := s.do(http.MethodPost, "/api/projects/"+projectID+"/share", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	shareToken := out["shareToken"].(string)
	assert.Equal(t, "https://land.example.com/share/"+shareToken, out["shareUrl"])
	assert.Contains(t, out["whatsappMessage"], "9876543210")

	sharePath := "/api/share/" + shareToken
	w, out = s.do(http.MethodGet, sharePath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	meta := out["project"].(map[string]any)
	assert.Equal(t, "Demo", meta["name"])
	assert.NotContains(t, meta, "mobileNumber")

	w, _ = s.do(http.MethodGet, sharePath+"/records", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, out = s.do(http.MethodPost, sharePath, "", map[string]string{"password": "1111111111"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperr.MsgPasswordWrong, out["error"])

	w, out = s.do(http.MethodPost, sharePath, "", map[string]string{"password": "9876543210"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, out["verified"])
	access := out["accessToken"].(string)

	w, out = s.do(http.MethodGet, sharePath+"/records", "", nil, "X-Share-Access", access)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, out["totalRecords"])

	w, out = s.do(http.MethodGet, sharePath+"/overview", access, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := out["statistics"].(map[string]any)
	assert.EqualValues(t, 1, stats["totalRecords"])

	w, out = s.do(http.MethodDelete, "/api/projects/"+projectID+"/share", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, apperr.MsgShareRevoked, out["message"])

	w, out = s.do(http.MethodGet, sharePath, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperr.MsgShareInvalid, out["error"])
	w, _ = s.do(http.MethodGet, sharePath+"/overview", access, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPayments(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.register("owner@example.com")
	projectID := s.createProject(token, "Demo", "9876543210")

	w, out := s.do(http.MethodPost, "/api/payments", token, map[string]any{
		"projectId": projectID, "totalAmount": 1000, "receivedAmount": 400, "paymentDate": "2024-03-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	payment := out["payment"].(map[string]any)
	assert.Equal(t, "partial", payment["status"])
	assert.EqualValues(t, 600, payment["pendingAmount"])
	paymentID := payment["id"].(string)

	w, out = s.do(http.MethodPost, "/api/payments", token, map[string]any{
		"projectId": projectID, "totalAmount": 100, "receivedAmount": 200,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.MsgReceivedExceedsTotal, out["error"])

	w, out = s.do(http.MethodPut, "/api/payments/"+paymentID, token, map[string]any{"receivedAmount": 1000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", out["payment"].(map[string]any)["status"])

	w, out = s.do(http.MethodGet, "/api/payments?projectId="+projectID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["payments"], 1)

	w, out = s.do(http.MethodGet, "/api/payments?userId="+userID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["payments"], 1)

	w, _ = s.do(http.MethodGet, "/api/payments", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/payments/"+paymentID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodDelete, "/api/payments/"+paymentID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAccount(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.register("owner@example.com")
	s.createProject(token, "Demo", "9876543210")

	w, _ := s.do(http.MethodDelete, "/api/auth/delete-account", token, map[string]string{"userId": "someone-else"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, out := s.do(http.MethodDelete, "/api/auth/delete-account", token, map[string]string{"userId": userID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, out["deletedProjects"])

	w, _ = s.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
