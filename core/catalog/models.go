package catalog

import (
	"github.com/elimu-cd/elimu/core"
)

// Program is an academic program (degree) students study under.
type Program struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"acad_name"`
}

// Student is a catalog student record; every student belongs to exactly one
// academic program.
type Student struct {
	ID        int    `json:"id" db:"id"`
	StudentNo string `json:"student_no" db:"student_no"`
	ProgramID int    `json:"acad_program_id" db:"acad_program_id"`
}

type Course struct {
	ID    int    `json:"id" db:"id"`
	Code  string `json:"code" db:"code"`
	Title string `json:"title" db:"title"`
}

type Lesson struct {
	ID    int    `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
}

type Instructor struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Inputs. Updates name every mutable field explicitly; nothing is
// mass-assigned from a raw field map.

type NewProgram struct {
	Name string `json:"name" validate:"required"`
}

func (np *NewProgram) Validate() error {
	np.Name = core.CleanString(np.Name)
	return core.Validate.Struct(np)
}

type UpdateProgram struct {
	Name string `json:"name" validate:"required"`
}

func (up *UpdateProgram) Validate() error {
	up.Name = core.CleanString(up.Name)
	return core.Validate.Struct(up)
}

type NewStudent struct {
	StudentNo string `json:"student_no" validate:"required"`
	ProgramID int    `json:"acad_program_id" validate:"required"`
}

func (ns *NewStudent) Validate() error {
	ns.StudentNo = core.CleanString(ns.StudentNo)
	return core.Validate.Struct(ns)
}

type UpdateStudent struct {
	StudentNo string `json:"student_no" validate:"required"`
	ProgramID int    `json:"acad_program_id" validate:"required"`
}

func (us *UpdateStudent) Validate() error {
	us.StudentNo = core.CleanString(us.StudentNo)
	return core.Validate.Struct(us)
}

type NewCourse struct {
	Code  string `json:"code" validate:"required"`
	Title string `json:"title" validate:"required"`
}

func (nc *NewCourse) Validate() error {
	nc.Code = core.CleanString(nc.Code)
	nc.Title = core.CleanString(nc.Title)
	return core.Validate.Struct(nc)
}

type UpdateCourse struct {
	Code  string `json:"code" validate:"required"`
	Title string `json:"title" validate:"required"`
}

func (uc *UpdateCourse) Validate() error {
	uc.Code = core.CleanString(uc.Code)
	uc.Title = core.CleanString(uc.Title)
	return core.Validate.Struct(uc)
}

type NewLesson struct {
	Title string `json:"title" validate:"required"`
}

func (nl *NewLesson) Validate() error {
	nl.Title = core.CleanString(nl.Title)
	return core.Validate.Struct(nl)
}

type UpdateLesson struct {
	Title string `json:"title" validate:"required"`
}

func (ul *UpdateLesson) Validate() error {
	ul.Title = core.CleanString(ul.Title)
	return core.Validate.Struct(ul)
}

type NewInstructor struct {
	Name string `json:"name" validate:"required"`
}

func (ni *NewInstructor) Validate() error {
	ni.Name = core.CleanString(ni.Name)
	return core.Validate.Struct(ni)
}

type UpdateInstructor struct {
	Name string `json:"name" validate:"required"`
}

func (ui *UpdateInstructor) Validate() error {
	ui.Name = core.CleanString(ui.Name)
	return core.Validate.Struct(ui)
}
