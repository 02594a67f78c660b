package assessment_test

import (
	"context"
	"testing"
	"time"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/assessment"
	"github.com/elimu-cd/elimu/core/catalog"
	dummydb "github.com/elimu-cd/elimu/storage/database/dummy"
)

type testEnv struct {
	svc  assessment.Service
	repo assessment.Repository
	cat  catalog.Repository
}

func setup(t *testing.T) testEnv {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	repo := dummydb.NewAssessmentRepository(db)
	return testEnv{
		svc:  assessment.NewService(db, repo),
		repo: repo,
		cat:  dummydb.NewCatalogRepository(db),
	}
}

func (env testEnv) createInstructor(t *testing.T, name string) catalog.Instructor {
	t.Helper()
	instr, err := env.cat.CreateInstructor(context.Background(), catalog.Instructor{Name: name})
	if err != nil {
		t.Fatalf("CreateInstructor() failed: %v", err)
	}
	return instr
}

func (env testEnv) createStudent(t *testing.T, no string) catalog.Student {
	t.Helper()
	ctx := context.Background()
	prog, err := env.cat.CreateProgram(ctx, catalog.Program{Name: "Prog " + no})
	if err != nil {
		t.Fatalf("CreateProgram() failed: %v", err)
	}
	std, err := env.cat.CreateStudent(ctx, catalog.Student{StudentNo: no, ProgramID: prog.ID})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func (env testEnv) createTest(t *testing.T, instructorID int) assessment.Test {
	t.Helper()
	test, err := env.svc.CreateTest(
		context.Background(), instructorID,
		assessment.NewTest{Date: time.Date(2021, time.June, 14, 0, 0, 0, 0, time.UTC)},
		"T1", "2020-2021",
	)
	if err != nil {
		t.Fatalf("CreateTest() failed: %v", err)
	}
	return test
}

func (env testEnv) addItem(t *testing.T, instructorID, testID int, question string) assessment.TestItem {
	t.Helper()
	item, err := env.svc.AddItem(
		context.Background(), instructorID, testID,
		assessment.NewItem{Question: question, Answer: "42"},
		"T1", "2020-2021",
	)
	if err != nil {
		t.Fatalf("AddItem() failed: %v", err)
	}
	return item
}

func Test_service_CreateTest(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	owner := env.createInstructor(t, "Prof. Kalala")
	test := env.createTest(t, owner.ID)

	tests, err := env.svc.InstructorTests(ctx, owner.ID)
	if err != nil {
		t.Fatalf("InstructorTests() failed: %v", err)
	}
	if len(tests) != 1 || tests[0].ID != test.ID {
		t.Errorf("InstructorTests() = %v; want [%v]", tests, test)
	}

	// the authorship edge must exist right away
	owns, err := env.repo.HasAuthorship(ctx, owner.ID, test.ID)
	if err != nil {
		t.Fatalf("HasAuthorship() failed: %v", err)
	}
	if !owns {
		t.Error("expected authorship edge for the creating instructor")
	}

	// a date is required
	if _, err = env.svc.CreateTest(ctx, owner.ID, assessment.NewTest{}, "T1", "2020-2021"); err == nil {
		t.Error("expected validation error for missing date")
	}
}

func Test_service_GetTest(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	owner := env.createInstructor(t, "Prof. Kalala")
	intruder := env.createInstructor(t, "Prof. Mbuyi")
	test := env.createTest(t, owner.ID)

	if _, err := env.svc.GetTest(ctx, owner.ID, test.ID); err != nil {
		t.Errorf("GetTest() by owner failed: %v", err)
	}

	_, err := env.svc.GetTest(ctx, intruder.ID, test.ID)
	if !core.IsAccessDeniedError(err) {
		t.Errorf("GetTest() by non-owner error = %v; want AccessDeniedError", err)
	}
	// denial must read like a missing test
	if err.Error() != "test not found" {
		t.Errorf("access denial message = %q; want %q", err.Error(), "test not found")
	}

	if _, err = env.svc.GetTest(ctx, owner.ID, 999); !core.IsNotFoundError(err) {
		t.Errorf("GetTest() unknown id error = %v; want NotFoundError", err)
	}
}

func Test_service_UpdateTest(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	owner := env.createInstructor(t, "Prof. Kalala")
	intruder := env.createInstructor(t, "Prof. Mbuyi")
	test := env.createTest(t, owner.ID)

	newDate := time.Date(2021, time.July, 1, 0, 0, 0, 0, time.UTC)
	updated, err := env.svc.UpdateTest(ctx, owner.ID, test.ID, assessment.UpdateTest{Date: newDate})
	if err != nil {
		t.Fatalf("UpdateTest() failed: %v", err)
	}
	if !updated.Date.Equal(newDate) {
		t.Errorf("UpdateTest() date = %v; want %v", updated.Date, newDate)
	}

	if _, err = env.svc.UpdateTest(ctx, intruder.ID, test.ID, assessment.UpdateTest{Date: newDate}); !core.IsAccessDeniedError(err) {
		t.Errorf("UpdateTest() by non-owner error = %v; want AccessDeniedError", err)
	}
}

func Test_service_AddItem(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	owner := env.createInstructor(t, "Prof. Kalala")
	intruder := env.createInstructor(t, "Prof. Mbuyi")
	test := env.createTest(t, owner.ID)

	item := env.addItem(t, owner.ID, test.ID, "What is the answer?")

	items, err := env.svc.TestItems(ctx, owner.ID, test.ID)
	if err != nil {
		t.Fatalf("TestItems() failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != item.ID {
		t.Errorf("TestItems() = %v; want [%v]", items, item)
	}

	// the construct edge must credit the adding instructor
	constructed, err := env.repo.HasConstruct(ctx, owner.ID, item.ID)
	if err != nil {
		t.Fatalf("HasConstruct() failed: %v", err)
	}
	if !constructed {
		t.Error("expected construct edge for the adding instructor")
	}

	ni := assessment.NewItem{Question: "Q", Answer: "A"}
	if _, err = env.svc.AddItem(ctx, intruder.ID, test.ID, ni, "T1", "2020-2021"); !core.IsAccessDeniedError(err) {
		t.Errorf("AddItem() on non-owned test error = %v; want AccessDeniedError", err)
	}
	if _, err = env.svc.TestItems(ctx, intruder.ID, test.ID); !core.IsAccessDeniedError(err) {
		t.Errorf("TestItems() on non-owned test error = %v; want AccessDeniedError", err)
	}
}

func Test_service_UpdateItem(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	owner := env.createInstructor(t, "Prof. Kalala")
	intruder := env.createInstructor(t, "Prof. Mbuyi")
	test := env.createTest(t, owner.ID)
	item := env.addItem(t, owner.ID, test.ID, "What is the answer?")

	ui := assessment.UpdateItem{Question: "Rephrased?", Answer: "Still 42"}
	updated, err := env.svc.UpdateItem(ctx, owner.ID, item.ID, ui)
	if err != nil {
		t.Fatalf("UpdateItem() failed: %v", err)
	}
	if updated.Question != ui.Question || updated.Answer != ui.Answer {
		t.Errorf("UpdateItem() = %v; want question %q answer %q", updated, ui.Question, ui.Answer)
	}

	if _, err = env.svc.UpdateItem(ctx, intruder.ID, item.ID, ui); !core.IsAccessDeniedError(err) {
		t.Errorf("UpdateItem() by non-constructor error = %v; want AccessDeniedError", err)
	}
}

func Test_service_PublishItem(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	owner := env.createInstructor(t, "Prof. Kalala")
	test := env.createTest(t, owner.ID)
	item := env.addItem(t, owner.ID, test.ID, "What is the answer?")

	if item.Published {
		t.Fatal("new item must not be published")
	}

	published, err := env.svc.PublishItem(ctx, owner.ID, item.ID)
	if err != nil {
		t.Fatalf("PublishItem() failed: %v", err)
	}
	if !published.Published {
		t.Error("PublishItem() did not set published")
	}

	// publishing twice is a no-op
	again, err := env.svc.PublishItem(ctx, owner.ID, item.ID)
	if err != nil {
		t.Fatalf("PublishItem() second call failed: %v", err)
	}
	if !again.Published {
		t.Error("PublishItem() second call lost published")
	}
}

func Test_service_DeleteItem(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	owner := env.createInstructor(t, "Prof. Kalala")
	other := env.createInstructor(t, "Prof. Mbuyi")
	testA := env.createTest(t, owner.ID)
	testB := env.createTest(t, other.ID)
	item := env.addItem(t, owner.ID, testA.ID, "What is the answer?")

	// share the item into the other instructor's test
	err := env.repo.CreateConstruct(ctx, assessment.Construct{
		InstructorID: other.ID,
		TestItemID:   item.ID,
		TestID:       testB.ID,
		Term:         "T1",
		SchoolYear:   "2020-2021",
	})
	if err != nil {
		t.Fatalf("CreateConstruct() failed: %v", err)
	}

	if err = env.svc.DeleteItem(ctx, owner.ID, testA.ID, item.ID); !core.IsInUseError(err) {
		t.Errorf("DeleteItem() of shared item error = %v; want InUseError", err)
	}
	// the refusal must leave the item in place
	if _, err = env.repo.GetItemByID(ctx, item.ID); err != nil {
		t.Errorf("item vanished after refused delete: %v", err)
	}

	// unshare, then the delete goes through
	if err = env.repo.DeleteConstructsByTest(ctx, testB.ID); err != nil {
		t.Fatalf("DeleteConstructsByTest() failed: %v", err)
	}
	if err = env.svc.DeleteItem(ctx, owner.ID, testA.ID, item.ID); err != nil {
		t.Fatalf("DeleteItem() failed: %v", err)
	}
	if _, err = env.repo.GetItemByID(ctx, item.ID); !core.IsNotFoundError(err) {
		t.Errorf("GetItemByID() after delete error = %v; want NotFoundError", err)
	}

	// only a constructing instructor may delete
	item2 := env.addItem(t, owner.ID, testA.ID, "Another question?")
	if err = env.svc.DeleteItem(ctx, other.ID, testA.ID, item2.ID); !core.IsAccessDeniedError(err) {
		t.Errorf("DeleteItem() by non-constructor error = %v; want AccessDeniedError", err)
	}
}

func Test_service_DeleteTest(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	owner := env.createInstructor(t, "Prof. Kalala")
	other := env.createInstructor(t, "Prof. Mbuyi")
	testA := env.createTest(t, owner.ID)
	testB := env.createTest(t, other.ID)
	item := env.addItem(t, owner.ID, testA.ID, "What is the answer?")

	// not the owner
	if err := env.svc.DeleteTest(ctx, other.ID, testA.ID); !core.IsAccessDeniedError(err) {
		t.Errorf("DeleteTest() by non-owner error = %v; want AccessDeniedError", err)
	}
	// unknown test
	if err := env.svc.DeleteTest(ctx, owner.ID, 999); !core.IsNotFoundError(err) {
		t.Errorf("DeleteTest() unknown id error = %v; want NotFoundError", err)
	}

	// share testA's item into testB: deleting testA would orphan testB's material
	err := env.repo.CreateConstruct(ctx, assessment.Construct{
		InstructorID: other.ID,
		TestItemID:   item.ID,
		TestID:       testB.ID,
		Term:         "T1",
		SchoolYear:   "2020-2021",
	})
	if err != nil {
		t.Fatalf("CreateConstruct() failed: %v", err)
	}
	if err = env.svc.DeleteTest(ctx, owner.ID, testA.ID); !core.IsInUseError(err) {
		t.Errorf("DeleteTest() with shared item error = %v; want InUseError", err)
	}
	// refusal leaves the test and its edges intact
	if _, err = env.svc.GetTest(ctx, owner.ID, testA.ID); err != nil {
		t.Errorf("test vanished after refused delete: %v", err)
	}

	// unshare, then the test goes away with its edges
	if err = env.repo.DeleteConstructsByTest(ctx, testB.ID); err != nil {
		t.Fatalf("DeleteConstructsByTest() failed: %v", err)
	}
	if err = env.svc.DeleteTest(ctx, owner.ID, testA.ID); err != nil {
		t.Fatalf("DeleteTest() failed: %v", err)
	}
	if _, err = env.repo.GetTestByID(ctx, testA.ID); !core.IsNotFoundError(err) {
		t.Errorf("GetTestByID() after delete error = %v; want NotFoundError", err)
	}
	owns, err := env.repo.HasAuthorship(ctx, owner.ID, testA.ID)
	if err != nil {
		t.Fatalf("HasAuthorship() failed: %v", err)
	}
	if owns {
		t.Error("authorship edge survived the delete")
	}
}

func Test_service_RecordTake(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	owner := env.createInstructor(t, "Prof. Kalala")
	std := env.createStudent(t, "STD-001")
	test := env.createTest(t, owner.ID)

	take := assessment.Take{StudentID: std.ID, TestID: test.ID, Term: "T1", SchoolYear: "2020-2021"}
	if err := env.svc.RecordTake(ctx, take); err != nil {
		t.Fatalf("RecordTake() failed: %v", err)
	}

	// same (student, test) pair is a duplicate
	if err := env.svc.RecordTake(ctx, take); !core.IsDuplicateKeyError(err) {
		t.Errorf("RecordTake() duplicate error = %v; want DuplicateKeyError", err)
	}

	// unknown test
	bad := assessment.Take{StudentID: std.ID, TestID: 999, Term: "T1", SchoolYear: "2020-2021"}
	if err := env.svc.RecordTake(ctx, bad); !core.IsReferentialError(err) {
		t.Errorf("RecordTake() unknown test error = %v; want ReferentialError", err)
	}

	// missing attribution
	if err := env.svc.RecordTake(ctx, assessment.Take{StudentID: std.ID, TestID: test.ID}); err == nil {
		t.Error("expected validation error for missing term and school year")
	}

	takes, err := env.svc.TestResults(ctx, owner.ID, test.ID)
	if err != nil {
		t.Fatalf("TestResults() failed: %v", err)
	}
	if len(takes) != 1 || takes[0] != take {
		t.Errorf("TestResults() = %v; want [%v]", takes, take)
	}
}

func Test_service_RecordAnswer(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	owner := env.createInstructor(t, "Prof. Kalala")
	std := env.createStudent(t, "STD-001")
	test := env.createTest(t, owner.ID)
	item := env.addItem(t, owner.ID, test.ID, "What is the answer?")

	answer := assessment.Answer{StudentID: std.ID, TestItemID: item.ID, Term: "T1", SchoolYear: "2020-2021", Response: "42"}
	if err := env.svc.RecordAnswer(ctx, answer); err != nil {
		t.Fatalf("RecordAnswer() failed: %v", err)
	}

	if err := env.svc.RecordAnswer(ctx, answer); !core.IsDuplicateKeyError(err) {
		t.Errorf("RecordAnswer() duplicate error = %v; want DuplicateKeyError", err)
	}

	bad := assessment.Answer{StudentID: std.ID, TestItemID: 999, Term: "T1", SchoolYear: "2020-2021", Response: "42"}
	if err := env.svc.RecordAnswer(ctx, bad); !core.IsReferentialError(err) {
		t.Errorf("RecordAnswer() unknown item error = %v; want ReferentialError", err)
	}
}

func Test_service_QueryAssessments(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	owner := env.createInstructor(t, "Prof. Kalala")
	test1 := env.createTest(t, owner.ID)
	test2 := env.createTest(t, owner.ID)
	item := env.addItem(t, owner.ID, test1.ID, "What is the answer?")

	assessments, err := env.svc.QueryAssessments(ctx)
	if err != nil {
		t.Fatalf("QueryAssessments() failed: %v", err)
	}
	if len(assessments) != 2 {
		t.Fatalf("QueryAssessments() returned %d assessments; want 2", len(assessments))
	}
	for _, a := range assessments {
		switch a.Test.ID {
		case test1.ID:
			if len(a.Items) != 1 || a.Items[0].ID != item.ID {
				t.Errorf("assessment for test %d items = %v; want [%v]", test1.ID, a.Items, item)
			}
		case test2.ID:
			if len(a.Items) != 0 {
				t.Errorf("assessment for test %d items = %v; want none", test2.ID, a.Items)
			}
		default:
			t.Errorf("unexpected test %d in assessments", a.Test.ID)
		}
	}
}
