package service

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
	"github.com/academica-app/academica-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type fakeAssessmentRepo struct {
	assessments map[uint]models.Assessment
	nextID      uint
}

func newFakeAssessmentRepo(assessments ...models.Assessment) *fakeAssessmentRepo {
	repo := &fakeAssessmentRepo{assessments: map[uint]models.Assessment{}, nextID: 1}
	for _, assessment := range assessments {
		repo.assessments[assessment.ID] = assessment
		if assessment.ID >= repo.nextID {
			repo.nextID = assessment.ID + 1
		}
	}
	return repo
}

func (f *fakeAssessmentRepo) all() []models.Assessment {
	result := make([]models.Assessment, 0, len(f.assessments))
	for _, assessment := range f.assessments {
		result = append(result, assessment)
	}
	return result
}

func (f *fakeAssessmentRepo) List(ctx context.Context, filter repository.AssessmentFilter) ([]models.Assessment, error) {
	return f.all(), nil
}

func (f *fakeAssessmentRepo) ListByDepartment(ctx context.Context, departmentID uint, filter repository.AssessmentFilter) ([]models.Assessment, error) {
	result := []models.Assessment{}
	for _, assessment := range f.assessments {
		if assessment.Course.DepartmentID == departmentID {
			result = append(result, assessment)
		}
	}
	return result, nil
}

func (f *fakeAssessmentRepo) ListByTeacher(ctx context.Context, teacherID uint, filter repository.AssessmentFilter) ([]models.Assessment, error) {
	result := []models.Assessment{}
	for _, assessment := range f.assessments {
		if assessment.CreatedByID != nil && *assessment.CreatedByID == teacherID {
			result = append(result, assessment)
		}
	}
	return result, nil
}

func (f *fakeAssessmentRepo) ListVisibleToStudent(ctx context.Context, studentID uint, departmentID *uint, statuses []string, filter repository.AssessmentFilter) ([]models.Assessment, error) {
	visible := map[string]struct{}{}
	for _, status := range statuses {
		visible[status] = struct{}{}
	}
	result := []models.Assessment{}
	for _, assessment := range f.assessments {
		if _, ok := visible[assessment.Status]; ok {
			result = append(result, assessment)
		}
	}
	return result, nil
}

func (f *fakeAssessmentRepo) GetByID(ctx context.Context, id uint) (models.Assessment, error) {
	assessment, ok := f.assessments[id]
	if !ok {
		return models.Assessment{}, gorm.ErrRecordNotFound
	}
	return assessment, nil
}

func (f *fakeAssessmentRepo) Create(ctx context.Context, assessment *models.Assessment) error {
	assessment.ID = f.nextID
	f.nextID++
	assessment.CreatedAt = time.Now()
	f.assessments[assessment.ID] = *assessment
	return nil
}

func (f *fakeAssessmentRepo) Update(ctx context.Context, assessment *models.Assessment) error {
	if _, ok := f.assessments[assessment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.assessments[assessment.ID] = *assessment
	return nil
}

func (f *fakeAssessmentRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.assessments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.assessments, id)
	return nil
}

type fakeSubmissionRepo struct {
	submissions map[uint]models.AssessmentSubmission
	nextID      uint
	updateCalls int
}

func newFakeSubmissionRepo(submissions ...models.AssessmentSubmission) *fakeSubmissionRepo {
	repo := &fakeSubmissionRepo{submissions: map[uint]models.AssessmentSubmission{}, nextID: 1}
	for _, submission := range submissions {
		repo.submissions[submission.ID] = submission
		if submission.ID >= repo.nextID {
			repo.nextID = submission.ID + 1
		}
	}
	return repo
}

func (f *fakeSubmissionRepo) List(ctx context.Context, filter repository.SubmissionFilter) ([]models.AssessmentSubmission, error) {
	result := []models.AssessmentSubmission{}
	for _, submission := range f.submissions {
		if filter.StudentID != nil && submission.StudentID != *filter.StudentID {
			continue
		}
		if filter.AssessmentID != nil && submission.AssessmentID != *filter.AssessmentID {
			continue
		}
		if filter.Status != nil && submission.Status != *filter.Status {
			continue
		}
		result = append(result, submission)
	}
	return result, nil
}

func (f *fakeSubmissionRepo) ListByDepartment(ctx context.Context, departmentID uint, filter repository.SubmissionFilter) ([]models.AssessmentSubmission, error) {
	result := []models.AssessmentSubmission{}
	for _, submission := range f.submissions {
		if submission.Assessment.Course.DepartmentID == departmentID {
			result = append(result, submission)
		}
	}
	return result, nil
}

func (f *fakeSubmissionRepo) ListByTeacher(ctx context.Context, teacherID uint, filter repository.SubmissionFilter) ([]models.AssessmentSubmission, error) {
	result := []models.AssessmentSubmission{}
	for _, submission := range f.submissions {
		if submission.Assessment.CreatedByID != nil && *submission.Assessment.CreatedByID == teacherID {
			result = append(result, submission)
		}
	}
	return result, nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id uint) (models.AssessmentSubmission, error) {
	submission, ok := f.submissions[id]
	if !ok {
		return models.AssessmentSubmission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (f *fakeSubmissionRepo) GetByAssessmentAndStudent(ctx context.Context, assessmentID, studentID uint) (models.AssessmentSubmission, error) {
	for _, submission := range f.submissions {
		if submission.AssessmentID == assessmentID && submission.StudentID == studentID {
			return submission, nil
		}
	}
	return models.AssessmentSubmission{}, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, submission *models.AssessmentSubmission) error {
	for _, existing := range f.submissions {
		if existing.AssessmentID == submission.AssessmentID && existing.StudentID == submission.StudentID {
			return gorm.ErrDuplicatedKey
		}
	}
	submission.ID = f.nextID
	f.nextID++
	f.submissions[submission.ID] = *submission
	return nil
}

func (f *fakeSubmissionRepo) Update(ctx context.Context, submission *models.AssessmentSubmission) error {
	if _, ok := f.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.updateCalls++
	f.submissions[submission.ID] = *submission
	return nil
}

type fakeCourseRepo struct {
	courses     map[uint]models.Course
	enrolled    map[uint]map[uint]bool
	assigned    map[uint]map[uint]bool
	enrollments map[uint][]models.CourseEnrollment
}

func newFakeCourseRepo(courses ...models.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{
		courses:     map[uint]models.Course{},
		enrolled:    map[uint]map[uint]bool{},
		assigned:    map[uint]map[uint]bool{},
		enrollments: map[uint][]models.CourseEnrollment{},
	}
	for _, course := range courses {
		repo.courses[course.ID] = course
	}
	return repo
}

func (f *fakeCourseRepo) enroll(studentID, courseID uint) {
	if f.enrolled[studentID] == nil {
		f.enrolled[studentID] = map[uint]bool{}
	}
	f.enrolled[studentID][courseID] = true
}

func (f *fakeCourseRepo) assign(teacherID, courseID uint) {
	if f.assigned[teacherID] == nil {
		f.assigned[teacherID] = map[uint]bool{}
	}
	f.assigned[teacherID][courseID] = true
}

func (f *fakeCourseRepo) List(ctx context.Context, filter repository.CourseFilter) ([]models.Course, error) {
	result := make([]models.Course, 0, len(f.courses))
	for _, course := range f.courses {
		result = append(result, course)
	}
	return result, nil
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, id uint) (models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id uint) error {
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) Enroll(ctx context.Context, enrollment *models.CourseEnrollment) error {
	f.enroll(enrollment.StudentID, enrollment.CourseID)
	f.enrollments[enrollment.CourseID] = append(f.enrollments[enrollment.CourseID], *enrollment)
	return nil
}

func (f *fakeCourseRepo) ListEnrollments(ctx context.Context, courseID uint) ([]models.CourseEnrollment, error) {
	return f.enrollments[courseID], nil
}

func (f *fakeCourseRepo) IsEnrolled(ctx context.Context, studentID, courseID uint) (bool, error) {
	return f.enrolled[studentID][courseID], nil
}

func (f *fakeCourseRepo) IsAssignedTeacher(ctx context.Context, teacherID, courseID uint) (bool, error) {
	return f.assigned[teacherID][courseID], nil
}

type fakeAnnouncementRepo struct {
	announcements map[uint]models.Announcement
	nextID        uint
}

func newFakeAnnouncementRepo(announcements ...models.Announcement) *fakeAnnouncementRepo {
	repo := &fakeAnnouncementRepo{announcements: map[uint]models.Announcement{}, nextID: 1}
	for _, announcement := range announcements {
		repo.announcements[announcement.ID] = announcement
		if announcement.ID >= repo.nextID {
			repo.nextID = announcement.ID + 1
		}
	}
	return repo
}

func (f *fakeAnnouncementRepo) List(ctx context.Context) ([]models.Announcement, error) {
	result := make([]models.Announcement, 0, len(f.announcements))
	for _, announcement := range f.announcements {
		result = append(result, announcement)
	}
	return result, nil
}

func (f *fakeAnnouncementRepo) GetByID(ctx context.Context, id uint) (models.Announcement, error) {
	announcement, ok := f.announcements[id]
	if !ok {
		return models.Announcement{}, gorm.ErrRecordNotFound
	}
	return announcement, nil
}

func (f *fakeAnnouncementRepo) Create(ctx context.Context, announcement *models.Announcement) error {
	announcement.ID = f.nextID
	f.nextID++
	f.announcements[announcement.ID] = *announcement
	return nil
}

func (f *fakeAnnouncementRepo) Update(ctx context.Context, announcement *models.Announcement) error {
	if _, ok := f.announcements[announcement.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.announcements[announcement.ID] = *announcement
	return nil
}

type fakeNotificationRepo struct {
	notifications map[uint]models.Notification
	nextID        uint
}

func newFakeNotificationRepo(notifications ...models.Notification) *fakeNotificationRepo {
	repo := &fakeNotificationRepo{notifications: map[uint]models.Notification{}, nextID: 1}
	for _, notification := range notifications {
		repo.notifications[notification.ID] = notification
		if notification.ID >= repo.nextID {
			repo.nextID = notification.ID + 1
		}
	}
	return repo
}

func (f *fakeNotificationRepo) byUser(userID uint) []models.Notification {
	result := []models.Notification{}
	for _, notification := range f.notifications {
		if notification.UserID == userID {
			result = append(result, notification)
		}
	}
	return result
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	return f.byUser(userID), nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id uint) (models.Notification, error) {
	notification, ok := f.notifications[id]
	if !ok {
		return models.Notification{}, gorm.ErrRecordNotFound
	}
	return notification, nil
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = f.nextID
	f.nextID++
	f.notifications[notification.ID] = *notification
	return nil
}

func (f *fakeNotificationRepo) Update(ctx context.Context, notification *models.Notification) error {
	if _, ok := f.notifications[notification.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.notifications[notification.ID] = *notification
	return nil
}

type fakeUserRepo struct {
	users map[uint]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[uint]models.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]models.User, error) {
	result := make([]models.User, 0, len(f.users))
	for _, user := range f.users {
		result = append(result, user)
	}
	return result, nil
}

func (f *fakeUserRepo) ListByDepartment(ctx context.Context, departmentID uint) ([]models.User, error) {
	result := []models.User{}
	for _, user := range f.users {
		if user.DepartmentID != nil && *user.DepartmentID == departmentID {
			result = append(result, user)
		}
	}
	return result, nil
}

func (f *fakeUserRepo) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	result := []models.User{}
	for _, user := range f.users {
		if user.Role == role {
			result = append(result, user)
		}
	}
	return result, nil
}

type recordedEvent struct {
	Subject string
	Payload map[string]interface{}
}

type stubEventPublisher struct {
	events []recordedEvent
}

func (s *stubEventPublisher) Publish(ctx context.Context, subject string, payload map[string]interface{}) {
	s.events = append(s.events, recordedEvent{Subject: subject, Payload: payload})
}

type stubActivityRecorder struct {
	entries []ActivityEntry
}

func (s *stubActivityRecorder) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityLogResponse, error) {
	s.entries = append(s.entries, entry)
	return dto.ActivityLogResponse{}, nil
}
