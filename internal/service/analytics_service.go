package service

import (
	"eduplay_backend/internal/model"
	"eduplay_backend/internal/repository"
	"eduplay_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

// AnalyticsService backs the teacher-facing dashboards. Read-only over
// the same store the student path writes.
type AnalyticsService struct {
	AnalyticsRepo *repository.AnalyticsRepository
	ClassRepo     *repository.ClassRepository
	UserRepo      *repository.UserRepository
	ProgressRepo  *repository.ProgressRepository
	PointsRepo    *repository.PointsRepository
	GameRepo      *repository.GameRepository
}

func NewAnalyticsService(
	analyticsRepo *repository.AnalyticsRepository,
	classRepo *repository.ClassRepository,
	userRepo *repository.UserRepository,
	progressRepo *repository.ProgressRepository,
	pointsRepo *repository.PointsRepository,
	gameRepo *repository.GameRepository,
) *AnalyticsService {
	return &AnalyticsService{
		AnalyticsRepo: analyticsRepo,
		ClassRepo:     classRepo,
		UserRepo:      userRepo,
		ProgressRepo:  progressRepo,
		PointsRepo:    pointsRepo,
		GameRepo:      gameRepo,
	}
}

type TeacherDashboard struct {
	Classes        int   `json:"classes"`
	Students       int64 `json:"students"`
	ActiveThisWeek int64 `json:"activeThisWeek"`
}

func (s *AnalyticsService) GetTeacherDashboard(teacherID uint) (*TeacherDashboard, error) {
	classes, err := s.ClassRepo.FindByTeacher(teacherID)
	if err != nil {
		return nil, err
	}

	var students int64
	for _, class := range classes {
		n, err := s.ClassRepo.CountStudents(class.ID)
		if err != nil {
			return nil, err
		}
		students += n
	}

	active, err := s.AnalyticsRepo.ActiveStudentsSince(time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	return &TeacherDashboard{
		Classes:        len(classes),
		Students:       students,
		ActiveThisWeek: active,
	}, nil
}

type ClassRequest struct {
	Name  string `json:"name" binding:"required"`
	Grade string `json:"grade"`
}

func (s *AnalyticsService) CreateClass(teacherID uint, req ClassRequest) (*model.Class, error) {
	class := &model.Class{
		Name:      req.Name,
		Grade:     req.Grade,
		TeacherID: teacherID,
	}
	if err := s.ClassRepo.Create(class); err != nil {
		return nil, err
	}
	return class, nil
}

func (s *AnalyticsService) ListClasses(teacherID uint) ([]model.Class, error) {
	return s.ClassRepo.FindByTeacher(teacherID)
}

// classForTeacher loads a class and enforces ownership; admins skip the
// ownership check at the controller layer by passing isAdmin.
func (s *AnalyticsService) classForTeacher(classID, teacherID uint, isAdmin bool) (*model.Class, error) {
	class, err := s.ClassRepo.FindByID(classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUnknownClass
		}
		return nil, err
	}
	if !isAdmin && class.TeacherID != teacherID {
		return nil, util.ErrUnknownClass
	}
	return class, nil
}

func (s *AnalyticsService) ClassStudents(classID, teacherID uint, isAdmin bool) ([]model.User, error) {
	if _, err := s.classForTeacher(classID, teacherID, isAdmin); err != nil {
		return nil, err
	}
	return s.UserRepo.FindByClass(classID)
}

type ClassOverview struct {
	Class    *model.Class                  `json:"class"`
	Students []repository.StudentStanding  `json:"students"`
	Subjects []repository.ClassSubjectStat `json:"subjects"`
}

func (s *AnalyticsService) GetClassOverview(classID, teacherID uint, isAdmin bool) (*ClassOverview, error) {
	class, err := s.classForTeacher(classID, teacherID, isAdmin)
	if err != nil {
		return nil, err
	}

	standings, err := s.AnalyticsRepo.ClassStandings(classID)
	if err != nil {
		return nil, err
	}

	subjects, err := s.AnalyticsRepo.ClassSubjectStats(classID)
	if err != nil {
		return nil, err
	}

	return &ClassOverview{Class: class, Students: standings, Subjects: subjects}, nil
}

type StudentSummary struct {
	Student      *model.User                 `json:"student"`
	Account      *model.PointsAccount        `json:"account"`
	Subjects     []repository.SubjectSummary `json:"subjects"`
	RecentScores []model.GameScore           `json:"recentScores"`
}

func (s *AnalyticsService) GetStudentSummary(studentID uint) (*StudentSummary, error) {
	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		return nil, err
	}

	account, err := s.PointsRepo.GetOrCreate(studentID)
	if err != nil {
		return nil, err
	}

	subjects, err := s.ProgressRepo.SummarizeByUser(studentID)
	if err != nil {
		return nil, err
	}

	scores, err := s.GameRepo.RecentScores(studentID, 10)
	if err != nil {
		return nil, err
	}

	return &StudentSummary{
		Student:      student,
		Account:      account,
		Subjects:     subjects,
		RecentScores: scores,
	}, nil
}

func (s *AnalyticsService) GetSubjectPerformance() ([]repository.SubjectPerformance, error) {
	return s.AnalyticsRepo.SubjectPerformance()
}
