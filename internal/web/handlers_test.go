package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-usermgmt/internal/metrics"
	"github.com/goliatone/go-usermgmt/pkg/apiclient"
	"github.com/goliatone/go-usermgmt/pkg/model"
	"github.com/goliatone/go-usermgmt/pkg/query"
	"github.com/goliatone/go-usermgmt/pkg/render"
	"github.com/goliatone/go-usermgmt/pkg/testsupport"
	"github.com/goliatone/go-usermgmt/pkg/validation"
)

type harness struct {
	api     *testsupport.UsersAPI
	handler http.Handler
	metrics *metrics.Metrics
}

func newHarness(t *testing.T, seed ...model.User) harness {
	t.Helper()

	api := testsupport.NewUsersAPI(t, seed...)
	client, err := apiclient.New(api.URL(), apiclient.WithSchemaValidation(nil))
	require.NoError(t, err)

	m := metrics.New(false)
	theme, err := LoadTheme(VariantLight)
	require.NoError(t, err)

	srv, err := New(query.NewUsers(client, nil), WithMetrics(m), WithTheme(theme))
	require.NoError(t, err)
	return harness{api: api, handler: srv.Routes(), metrics: m}
}

func (h harness) get(t *testing.T, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	return rr
}

func (h harness) post(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	return rr
}

func validForm() url.Values {
	user := testsupport.ValidUser("")
	return url.Values{
		model.FieldFirstName: {user.FirstName},
		model.FieldLastName:  {user.LastName},
		model.FieldPhone:     {user.Phone},
		model.FieldEmail:     {user.Email},
	}
}

func TestIndex_ListsFirstPage(t *testing.T) {
	users := testsupport.SampleUsers(14)
	h := newHarness(t, users...)

	rr := h.get(t, "/")
	body := rr.Body.String()

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, body, "Manage user details")
	assert.Contains(t, body, "User list (14)")
	assert.Equal(t, 6, strings.Count(body, "data-user-id="))
	assert.Contains(t, body, `data-user-id="usr_fixture00"`)
	assert.NotContains(t, body, `data-user-id="usr_fixture06"`)
	assert.Contains(t, body, `href="/?page=3"`)
	assert.NotContains(t, body, `role="dialog"`)
	assert.Contains(t, body, "--um-color-primary:#1976d2;")

	requestID := rr.Header().Get(apiclient.RequestIDHeader)
	assert.NotEmpty(t, requestID)
	assert.Contains(t, h.api.RequestIDs(), requestID)
}

func TestIndex_LastPageAndClamp(t *testing.T) {
	h := newHarness(t, testsupport.SampleUsers(14)...)

	body := h.get(t, "/?page=3").Body.String()
	assert.Equal(t, 2, strings.Count(body, "data-user-id="))
	assert.Contains(t, body, `data-user-id="usr_fixture12"`)
	assert.Contains(t, body, `data-user-id="usr_fixture13"`)

	clamped := h.get(t, "/?page=99").Body.String()
	assert.Contains(t, clamped, `data-user-id="usr_fixture13"`)
	assert.Contains(t, clamped, `<span aria-current="page">3</span>`)
}

func TestIndex_CompactPageSize(t *testing.T) {
	h := newHarness(t, testsupport.SampleUsers(8)...)

	forced := h.get(t, "/?compact=1").Body.String()
	assert.Equal(t, 3, strings.Count(forced, "data-user-id="))
	assert.Contains(t, forced, `href="/?compact=1&amp;page=2"`)

	narrow := h.get(t, "/", viewportHeader, "420")
	assert.Equal(t, 3, strings.Count(narrow.Body.String(), "data-user-id="))
	assert.Equal(t, viewportHeader, narrow.Header().Get("Accept-CH"))

	wide := h.get(t, "/", viewportHeader, "1280").Body.String()
	assert.Equal(t, 6, strings.Count(wide, "data-user-id="))
}

func TestIndex_EmptyCollection(t *testing.T) {
	h := newHarness(t)

	body := h.get(t, "/").Body.String()
	assert.Contains(t, body, "User list (0)")
	assert.Contains(t, body, "No users found")
	assert.NotContains(t, body, `aria-label="Pagination"`)
}

func TestIndex_FetchFailureShowsAlert(t *testing.T) {
	h := newHarness(t, testsupport.SampleUsers(2)...)
	h.api.FailNext(http.MethodGet, http.StatusInternalServerError, http.StatusInternalServerError, http.StatusInternalServerError)

	rr := h.get(t, "/")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), `role="alert"`)
	assert.Contains(t, rr.Body.String(), "Could not load users")
	assert.NotContains(t, rr.Body.String(), "No users found")
}

func TestNew_OpensCreateModal(t *testing.T) {
	h := newHarness(t)

	body := h.get(t, "/users/new").Body.String()
	assert.Contains(t, body, `role="dialog"`)
	assert.Contains(t, body, "Add User")
	assert.Contains(t, body, `name="`+render.DraftIDName+`" value="usr_`)
	assert.NotContains(t, body, render.TargetIDName)
	assert.Contains(t, body, `action="/users"`)
	assert.Contains(t, body, `data-validate-url="/validate/email"`)
}

func TestEdit_SeedsModalFromUser(t *testing.T) {
	users := testsupport.SampleUsers(3)
	h := newHarness(t, users...)

	body := h.get(t, "/users/usr_fixture01/edit").Body.String()
	assert.Contains(t, body, "Edit User")
	assert.Contains(t, body, `value="`+users[1].FirstName+`"`)
	assert.Contains(t, body, `value="`+users[1].Email+`"`)
	assert.Contains(t, body, `name="`+render.TargetIDName+`" value="usr_fixture01"`)

	missing := h.get(t, "/users/usr_missing/edit")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Contains(t, missing.Body.String(), "User not found")
	assert.NotContains(t, missing.Body.String(), `role="dialog"`)
}

func TestSave_InvalidKeepsFormOpen(t *testing.T) {
	h := newHarness(t)

	form := validForm()
	form.Set(model.FieldFirstName, "   ")
	form.Set(model.FieldPhone, "1234567890")
	form.Set(render.DraftIDName, "usr_draft0000001")

	rr := h.post(t, "/users", form)
	body := rr.Body.String()

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, body, validation.MsgRequired)
	assert.Contains(t, body, validation.MsgPhone)
	assert.Equal(t, 2, strings.Count(body, `aria-invalid="true"`))
	assert.Contains(t, body, `value="usr_draft0000001"`)
	assert.Contains(t, body, `value="`+testsupport.ValidUser("").Email+`"`)
	assert.Equal(t, 0, h.api.Calls(http.MethodPost))
}

func TestSave_CreateRedirectsAndRefetchesOnce(t *testing.T) {
	h := newHarness(t, testsupport.SampleUsers(2)...)

	require.Equal(t, http.StatusOK, h.get(t, "/").Code)
	require.Equal(t, 1, h.api.Calls(http.MethodGet))

	form := validForm()
	form.Set(render.DraftIDName, "usr_draft0000001")
	rr := h.post(t, "/users?page=1", form)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.Equal(t, 1, h.api.Calls(http.MethodPost))
	assert.Len(t, h.api.Users(), 3)

	body := h.get(t, "/").Body.String()
	assert.Equal(t, 2, h.api.Calls(http.MethodGet))
	assert.Contains(t, body, "User list (3)")
	assert.Contains(t, body, "Ada Lovelace")

	h.get(t, "/")
	assert.Equal(t, 2, h.api.Calls(http.MethodGet), "fresh cache must not refetch")
}

func TestSave_UpdateKeepsID(t *testing.T) {
	users := testsupport.SampleUsers(3)
	h := newHarness(t, users...)

	form := validForm()
	form.Set(render.TargetIDName, "usr_fixture02")
	rr := h.post(t, "/users?page=1", form)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, 1, h.api.Calls(http.MethodPut))
	assert.Equal(t, 0, h.api.Calls(http.MethodPost))

	stored := h.api.Users()
	require.Len(t, stored, 3)
	assert.Equal(t, "usr_fixture02", stored[2].ID)
	assert.Equal(t, "Ada", stored[2].FirstName)
}

func TestSave_UnknownTarget(t *testing.T) {
	h := newHarness(t, testsupport.SampleUsers(1)...)

	form := validForm()
	form.Set(render.TargetIDName, "usr_gone")
	rr := h.post(t, "/users", form)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 0, h.api.Calls(http.MethodPut))
}

func TestSave_MutationFailureKeepsFormOpen(t *testing.T) {
	h := newHarness(t)
	h.api.FailNext(http.MethodPost, http.StatusInternalServerError)

	form := validForm()
	form.Set(render.DraftIDName, "usr_draft0000002")
	rr := h.post(t, "/users", form)
	body := rr.Body.String()

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, body, `role="dialog"`)
	assert.Contains(t, body, "Could not save user: Internal Server Error")
	assert.Contains(t, body, `value="usr_draft0000002"`)
	assert.Contains(t, body, `value="Lovelace"`)
	assert.Empty(t, h.api.Users())
}

func TestDelete(t *testing.T) {
	h := newHarness(t, testsupport.SampleUsers(3)...)

	rr := h.post(t, "/users/usr_fixture00/delete?page=1", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.Len(t, h.api.Users(), 2)

	missing := h.post(t, "/users/usr_missing/delete", url.Values{})
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Contains(t, missing.Body.String(), "Could not delete user")
}

func TestValidateFragment(t *testing.T) {
	h := newHarness(t)

	bad := h.post(t, "/validate/phone", url.Values{model.FieldPhone: {"12345"}})
	assert.Equal(t, http.StatusOK, bad.Code)
	assert.Contains(t, bad.Body.String(), `id="field-phone"`)
	assert.Contains(t, bad.Body.String(), validation.MsgPhone)
	assert.Contains(t, bad.Body.String(), `aria-invalid="true"`)

	good := h.post(t, "/validate/email", url.Values{model.FieldEmail: {"a@b.com"}})
	assert.Equal(t, http.StatusOK, good.Code)
	assert.NotContains(t, good.Body.String(), `aria-invalid`)
	assert.Contains(t, good.Body.String(), `value="a@b.com"`)

	unknown := h.post(t, "/validate/nickname", url.Values{})
	assert.Equal(t, http.StatusNotFound, unknown.Code)
}

func TestOperationalRoutes(t *testing.T) {
	h := newHarness(t)

	health := h.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, "ok", health.Body.String())

	css := h.get(t, "/assets/usermgmt.css")
	assert.Equal(t, http.StatusOK, css.Code)
	assert.Contains(t, css.Body.String(), "--um-color-primary")

	h.get(t, "/")
	exposition := h.get(t, "/metrics").Body.String()
	assert.Contains(t, exposition, `usermgmt_http_requests_total{code="200",method="GET",route="/"} 1`)
}

func TestRequestIDIsReused(t *testing.T) {
	h := newHarness(t)
	const id = "0f8fad5b-d9cb-469f-a165-70867728950e"

	rr := h.get(t, "/", apiclient.RequestIDHeader, id)
	assert.Equal(t, id, rr.Header().Get(apiclient.RequestIDHeader))
	assert.Equal(t, []string{id}, h.api.RequestIDs())

	rr = h.get(t, "/healthz", apiclient.RequestIDHeader, "not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", rr.Header().Get(apiclient.RequestIDHeader))
}
