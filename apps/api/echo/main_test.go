package echoapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strconv"
	"testing"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/academics"
	"github.com/elimu-cd/elimu/core/assessment"
	"github.com/elimu-cd/elimu/core/catalog"
	"github.com/elimu-cd/elimu/core/user"
	emailsvc "github.com/elimu-cd/elimu/services/email"
	logsvc "github.com/elimu-cd/elimu/services/logger"
	dummydb "github.com/elimu-cd/elimu/storage/database/dummy"
)

var (
	db  *dummydb.DB
	app Server

	usrRepo    user.Repository
	catRepo    catalog.Repository
	acadRepo   academics.Repository
	assessRepo assessment.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

func TestMain(m *testing.M) {
	core.Conf.Debug = false
	core.Conf.TestMode = true

	// set up DB & repos
	var err error
	if db, err = dummydb.Open(); err != nil {
		fmt.Printf("dummydb.Open(): %v", err)
		os.Exit(1)
	}
	usrRepo = dummydb.NewUserRepository(db)
	catRepo = dummydb.NewCatalogRepository(db)
	acadRepo = dummydb.NewAcademicsRepository(db)
	assessRepo = dummydb.NewAssessmentRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewServiceMock(usrRepo, mailSvc)

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), core.Conf)
	logger.Enable(false)

	// set up server
	app = NewServer(&Options{
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		CatalogSvc:     catalog.NewService(db, catRepo),
		AcademicsSvc:   academics.NewService(acadRepo),
		AssessmentSvc:  assessment.NewService(db, assessRepo),
		Logger:         logger,
	})

	os.Exit(m.Run())
}

func resetDB(t *testing.T) {
	t.Helper()
	db.Reset()
	emailsvc.SentMessages = nil
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func itoa(id int) string {
	return strconv.Itoa(id)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func Test_server_home(t *testing.T) {
	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
	}
	if want := "Welcome to Elimu API!"; rec.Body.String() != want {
		t.Errorf("failed! body = %q; want %q", rec.Body.String(), want)
	}
}
