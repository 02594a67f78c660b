package echoapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/elimu-cd/elimu/core/academics"
	"github.com/elimu-cd/elimu/core/assessment"
	"github.com/elimu-cd/elimu/core/catalog"
	"github.com/elimu-cd/elimu/core/user"
	testutil "github.com/elimu-cd/elimu/tests"
)

// createInstructorUser links an auth account to a fresh catalog instructor and
// returns the instructor with a portal token.
func createInstructorUser(t *testing.T, name, uname string) (catalog.Instructor, string) {
	t.Helper()
	ctx := context.Background()

	instr, err := catRepo.CreateInstructor(ctx, catalog.Instructor{Name: name})
	if err != nil {
		t.Fatalf("CreateInstructor(): %v", err)
	}
	usr, err := usrRepo.CreateUser(ctx, user.User{
		Name:         name,
		Username:     uname,
		Email:        uname + "@test.cd",
		Roles:        []string{user.RoleInstructor},
		IsActive:     true,
		InstructorID: &instr.ID,
	})
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return instr, getToken(t, usr)
}

func createTestReq(t *testing.T, token string, date time.Time) assessment.Test {
	t.Helper()
	var test assessment.Test
	postJSON(t, "/v1/instructor/tests", token,
		marchallObj(t, NewTestRequest{Date: date, Term: "T1", SchoolYear: "2020-2021"}), http.StatusCreated, &test)
	return test
}

func addItemReq(t *testing.T, token string, testID int, question, answer string) assessment.TestItem {
	t.Helper()
	var item assessment.TestItem
	postJSON(t, "/v1/instructor/tests/"+itoa(testID)+"/items", token,
		marchallObj(t, NewItemRequest{Question: question, Answer: answer, Term: "T1", SchoolYear: "2020-2021"}),
		http.StatusCreated, &item)
	return item
}

func Test_instructorApi_accessControl(t *testing.T) {
	resetDB(t)

	_, _ = createInstructorUser(t, "Prof. Kalala", "kalala1")
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero22", "hero@test.cd", "", []string{user.RoleStudent}, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Instructor required", token: getToken(t, student), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		// admins pass the portal gate but have no instructor identity to act as
		{name: "Admin without instructor link", token: getToken(t, admin), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/v1/instructor/tests"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_instructorApi_tests(t *testing.T) {
	resetDB(t)

	_, tokenA := createInstructorUser(t, "Prof. Kalala", "kalala1")
	_, tokenB := createInstructorUser(t, "Prof. Mbuyi", "mbuyi01")

	date := time.Date(2021, time.June, 14, 0, 0, 0, 0, time.UTC)
	test := createTestReq(t, tokenA, date)
	if !test.Date.Equal(date) {
		t.Fatalf("created test date = %v; want %v", test.Date, date)
	}

	t.Run("date and attribution are required", func(t *testing.T) {
		reqMsg := "this field is required"
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date": reqMsg, "term": reqMsg, "sy": reqMsg}),
		}
		req, rec := newAuthRequest(http.MethodPost, "/v1/instructor/tests", tokenA, marchallObj(t, NewTestRequest{}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("owner lists own tests", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, test)}
		req, rec := newAuthRequest(http.MethodGet, "/v1/instructor/tests", tokenA)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("non-owner list is empty", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, []interface{}{}...)}
		req, rec := newAuthRequest(http.MethodGet, "/v1/instructor/tests", tokenB)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("owner retrieves test", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, test)}
		req, rec := newAuthRequest(http.MethodGet, "/v1/instructor/tests/"+itoa(test.ID), tokenA)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	// denial is indistinguishable from absence
	t.Run("non-owner gets not found", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "test not found"})}
		req, rec := newAuthRequest(http.MethodGet, "/v1/instructor/tests/"+itoa(test.ID), tokenB)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("unknown test", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "test not found"})}
		req, rec := newAuthRequest(http.MethodGet, "/v1/instructor/tests/999", tokenA)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("owner updates test", func(t *testing.T) {
		newDate := date.AddDate(0, 0, 7)
		want := test
		want.Date = newDate
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, want)}
		req, rec := newAuthRequest(http.MethodPut, "/v1/instructor/tests/"+itoa(test.ID), tokenA,
			marchallObj(t, assessment.UpdateTest{Date: newDate}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "test not found"})}
		req, rec := newAuthRequest(http.MethodDelete, "/v1/instructor/tests/"+itoa(test.ID), tokenB)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		if _, err := assessRepo.GetTestByID(context.Background(), test.ID); err != nil {
			t.Errorf("test vanished after refused delete: %v", err)
		}
	})

	t.Run("owner deletes test", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/instructor/tests/"+itoa(test.ID), tokenA)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete code = %v; body %s", rec.Code, rec.Body.String())
		}
	})
}

func Test_instructorApi_items(t *testing.T) {
	resetDB(t)

	ctx := context.Background()
	_, tokenA := createInstructorUser(t, "Prof. Kalala", "kalala1")
	instrB, tokenB := createInstructorUser(t, "Prof. Mbuyi", "mbuyi01")

	date := time.Date(2021, time.June, 14, 0, 0, 0, 0, time.UTC)
	testA := createTestReq(t, tokenA, date)
	testB := createTestReq(t, tokenB, date)

	item := addItemReq(t, tokenA, testA.ID, "2+2 ?", "4")

	t.Run("owner lists items", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, item)}
		req, rec := newAuthRequest(http.MethodGet, "/v1/instructor/tests/"+itoa(testA.ID)+"/items", tokenA)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("non-constructor cannot update item", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "test item not found"})}
		req, rec := newAuthRequest(http.MethodPut, "/v1/instructor/items/"+itoa(item.ID), tokenB,
			marchallObj(t, assessment.UpdateItem{Question: "3+3 ?", Answer: "6"}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("owner updates item", func(t *testing.T) {
		want := item
		want.Question = "3+3 ?"
		want.Answer = "6"
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, want)}
		req, rec := newAuthRequest(http.MethodPut, "/v1/instructor/items/"+itoa(item.ID), tokenA,
			marchallObj(t, assessment.UpdateItem{Question: "3+3 ?", Answer: "6"}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
		item = want
	})

	t.Run("publish is idempotent", func(t *testing.T) {
		want := item
		want.Published = true
		for i := 0; i < 2; i++ {
			tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, want)}
			req, rec := newAuthRequest(http.MethodPost, "/v1/instructor/items/"+itoa(item.ID)+"/publish", tokenA)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		}
		item = want
	})

	// share the item: another instructor references it under their own test
	if err := assessRepo.CreateConstruct(ctx, assessment.Construct{
		InstructorID: instrB.ID, TestItemID: item.ID, TestID: testB.ID, Term: "T1", SchoolYear: "2020-2021",
	}); err != nil {
		t.Fatalf("CreateConstruct(): %v", err)
	}

	t.Run("shared item cannot be deleted", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "cannot delete test item: it is used in other tests"}),
		}
		req, rec := newAuthRequest(http.MethodDelete, "/v1/instructor/tests/"+itoa(testA.ID)+"/items/"+itoa(item.ID), tokenA)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		if _, err := assessRepo.GetItemByID(ctx, item.ID); err != nil {
			t.Errorf("item vanished after refused delete: %v", err)
		}
	})

	t.Run("test with shared item cannot be deleted", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "cannot delete test: its items are used in other tests"}),
		}
		req, rec := newAuthRequest(http.MethodDelete, "/v1/instructor/tests/"+itoa(testA.ID), tokenA)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		if _, err := assessRepo.GetTestByID(ctx, testA.ID); err != nil {
			t.Errorf("test vanished after refused delete: %v", err)
		}
	})

	t.Run("unshared item can be deleted", func(t *testing.T) {
		if err := assessRepo.DeleteConstructsByTest(ctx, testB.ID); err != nil {
			t.Fatalf("DeleteConstructsByTest(): %v", err)
		}
		req, rec := newAuthRequest(http.MethodDelete, "/v1/instructor/tests/"+itoa(testA.ID)+"/items/"+itoa(item.ID), tokenA)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete code = %v; body %s", rec.Code, rec.Body.String())
		}
		req, rec = newAuthRequest(http.MethodDelete, "/v1/instructor/tests/"+itoa(testA.ID), tokenA)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete test code = %v; body %s", rec.Code, rec.Body.String())
		}
	})
}

func Test_instructorApi_results(t *testing.T) {
	resetDB(t)

	ctx := context.Background()
	_, tokenA := createInstructorUser(t, "Prof. Kalala", "kalala1")
	_, tokenB := createInstructorUser(t, "Prof. Mbuyi", "mbuyi01")

	test := createTestReq(t, tokenA, time.Date(2021, time.June, 14, 0, 0, 0, 0, time.UTC))

	prog, err := catRepo.CreateProgram(ctx, catalog.Program{Name: "Informatique"})
	if err != nil {
		t.Fatalf("CreateProgram(): %v", err)
	}
	std, err := catRepo.CreateStudent(ctx, catalog.Student{StudentNo: "STD-001", ProgramID: prog.ID})
	if err != nil {
		t.Fatalf("CreateStudent(): %v", err)
	}
	take := assessment.Take{StudentID: std.ID, TestID: test.ID, Term: "T1", SchoolYear: "2020-2021"}
	if err = assessRepo.CreateTake(ctx, take); err != nil {
		t.Fatalf("CreateTake(): %v", err)
	}

	t.Run("owner sees takes", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, take)}
		req, rec := newAuthRequest(http.MethodGet, "/v1/instructor/tests/"+itoa(test.ID)+"/results", tokenA)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("non-owner gets not found", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "test not found"})}
		req, rec := newAuthRequest(http.MethodGet, "/v1/instructor/tests/"+itoa(test.ID)+"/results", tokenB)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_instructorApi_courses(t *testing.T) {
	resetDB(t)

	ctx := context.Background()
	instr, token := createInstructorUser(t, "Prof. Kalala", "kalala1")

	course, err := catRepo.CreateCourse(ctx, catalog.Course{Code: "INF-101", Title: "Algorithmique"})
	if err != nil {
		t.Fatalf("CreateCourse(): %v", err)
	}
	teach := academics.Teach{InstructorID: instr.ID, CourseID: course.ID, Term: "T1", SchoolYear: "2020-2021"}
	if err = acadRepo.CreateTeach(ctx, teach); err != nil {
		t.Fatalf("CreateTeach(): %v", err)
	}

	tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, course)}
	req, rec := newAuthRequest(http.MethodGet, "/v1/instructor/courses", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}
