package handler

import (
	"fmt"
	"time"

	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/absence"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/assignment"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/person"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/project"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// dateLayout は日付フィールドのワイヤ表現です。時刻は持ちません。
const dateLayout = "2006-01-02"

func parseDate(raw, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s: expected YYYY-MM-DD, got %q", field, raw)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// PersonMessage は従業員のワイヤ表現です。パスワードハッシュは含みません。
type PersonMessage struct {
	Id        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPersonMessage(p *person.Profile) *PersonMessage {
	if p == nil {
		return nil
	}
	return &PersonMessage{
		Id:        p.ID,
		Username:  p.Username,
		Email:     p.Email,
		Role:      string(p.Role),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type CreatePersonRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type CreatePersonResponse struct {
	Person *PersonMessage `json:"person"`
}

type GetPersonRequest struct {
	Id string `json:"id"`
}

type GetPersonResponse struct {
	Person *PersonMessage `json:"person"`
}

type ListPeopleRequest struct {
	PageSize  int    `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
	Role      string `json:"role,omitempty"`
}

type ListPeopleResponse struct {
	People        []*PersonMessage `json:"people"`
	NextPageToken string           `json:"next_page_token,omitempty"`
}

// ReferentMessage はプロジェクト作成時点のリファレント情報です。
type ReferentMessage struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type ProjectMessage struct {
	Id                  string           `json:"id"`
	Name                string           `json:"name"`
	ReferringEmployeeId string           `json:"referring_employee_id"`
	Referent            *ReferentMessage `json:"referent,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

func toProjectMessage(p *project.Project) *ProjectMessage {
	if p == nil {
		return nil
	}

	msg := &ProjectMessage{
		Id:                  p.ID,
		Name:                p.Name,
		ReferringEmployeeId: p.ReferringEmployeeID,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
	if p.ReferringEmployee != nil {
		msg.Referent = &ReferentMessage{
			Id:       p.ReferringEmployee.ID,
			Username: p.ReferringEmployee.Username,
			Email:    p.ReferringEmployee.Email,
			Role:     string(p.ReferringEmployee.Role),
		}
	}
	return msg
}

type CreateProjectRequest struct {
	Name                string `json:"name"`
	ReferringEmployeeId string `json:"referring_employee_id"`
}

type CreateProjectResponse struct {
	Project *ProjectMessage `json:"project"`
}

type GetProjectRequest struct {
	Id string `json:"id"`
}

type GetProjectResponse struct {
	Project *ProjectMessage `json:"project"`
}

type AssignmentMessage struct {
	Id        string    `json:"id"`
	PersonId  string    `json:"person_id"`
	ProjectId string    `json:"project_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`

	PersonUsername      string `json:"person_username,omitempty"`
	PersonEmail         string `json:"person_email,omitempty"`
	ProjectName         string `json:"project_name,omitempty"`
	ReferringEmployeeId string `json:"referring_employee_id,omitempty"`
}

func toAssignmentMessage(a *assignment.Assignment) *AssignmentMessage {
	if a == nil {
		return nil
	}

	msg := &AssignmentMessage{
		Id:        a.ID,
		PersonId:  a.PersonID,
		ProjectId: a.ProjectID,
		StartDate: formatDate(a.StartDate),
		EndDate:   formatDate(a.EndDate),
		CreatedAt: a.CreatedAt,
	}
	if a.Person != nil {
		msg.PersonUsername = a.Person.Username
		msg.PersonEmail = a.Person.Email
	}
	if a.Project != nil {
		msg.ProjectName = a.Project.Name
		msg.ReferringEmployeeId = a.Project.ReferringEmployeeID
	}
	return msg
}

type CreateAssignmentRequest struct {
	PersonId  string `json:"person_id"`
	ProjectId string `json:"project_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type CreateAssignmentResponse struct {
	Assignment *AssignmentMessage `json:"assignment"`
}

type GetAssignmentRequest struct {
	Id string `json:"id"`
}

type GetAssignmentResponse struct {
	Assignment *AssignmentMessage `json:"assignment"`
}

type ListAssignmentsRequest struct{}

// AssignmentSummaryMessage は一覧用の射影です。
type AssignmentSummaryMessage struct {
	Id                  string `json:"id"`
	ProjectName         string `json:"project_name"`
	ReferringEmployeeId string `json:"referring_employee_id"`
}

type ListAssignmentsResponse struct {
	Assignments []*AssignmentSummaryMessage `json:"assignments"`
}

type AbsenceEventMessage struct {
	Id          string    `json:"id"`
	PersonId    string    `json:"person_id"`
	Date        string    `json:"date"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toAbsenceEventMessage(e *absence.Event) *AbsenceEventMessage {
	if e == nil {
		return nil
	}
	return &AbsenceEventMessage{
		Id:          e.ID,
		PersonId:    e.PersonID,
		Date:        formatDate(e.Date),
		Type:        string(e.Type),
		Status:      string(e.Status),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type CreateAbsenceEventRequest struct {
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Description *string `json:"description,omitempty"`
}

type CreateAbsenceEventResponse struct {
	Event *AbsenceEventMessage `json:"event"`
}

type GetAbsenceEventRequest struct {
	Id string `json:"id"`
}

type GetAbsenceEventResponse struct {
	Event *AbsenceEventMessage `json:"event"`
}

type ListAbsenceEventsRequest struct{}

type ListAbsenceEventsResponse struct {
	Events []*AbsenceEventMessage `json:"events"`
}

type DecideAbsenceEventRequest struct {
	Id string `json:"id"`
}

type DecideAbsenceEventResponse struct {
	Event *AbsenceEventMessage `json:"event"`
}

type MealVoucherAllowanceRequest struct {
	PersonId string `json:"person_id"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
}

type MealVoucherAllowanceResponse struct {
	AmountEur int `json:"amount_eur"`
}

func monthFromInt(raw int) (time.Month, error) {
	if raw < int(time.January) || raw > int(time.December) {
		return 0, status.Error(codes.InvalidArgument, fmt.Sprintf("month: expected 1-12, got %d", raw))
	}
	return time.Month(raw), nil
}
