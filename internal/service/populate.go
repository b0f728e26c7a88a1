package service

import (
	"context"
	"time"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/repository"
	"github.com/fitlog/backend/internal/storage"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// View types returned by population. References are resolved at query
// time into immutable snapshots; the shadowed json tags replace the raw
// ids of the embedded entity with full documents, the way responses
// always looked to clients.

// ExerciseDetail is an exercise with its muscles resolved and, when
// demonstration media exists, a presigned download URL.
type ExerciseDetail struct {
	domain.Exercise
	Muscles  []domain.Muscle `json:"muscles"`
	MediaURL string          `json:"mediaUrl,omitempty"`
}

// WorkoutExerciseDetail pairs a resolved exercise with its planned sets.
type WorkoutExerciseDetail struct {
	Exercise ExerciseDetail      `json:"exercise"`
	Sets     []domain.PlannedSet `json:"sets"`
}

// WorkoutDetail is a workout with every referenced exercise resolved.
type WorkoutDetail struct {
	domain.Workout
	Exercises []WorkoutExerciseDetail `json:"exercises"`
}

// LastPerformance describes the most recent prior completed occurrence
// of an exercise, shown for progressive-overload reference.
type LastPerformance struct {
	Date      time.Time             `json:"date"`
	SessionID primitive.ObjectID    `json:"sessionId"`
	Sets      []domain.PerformedSet `json:"sets"`
}

// PerformanceDetail is one exercise's actual sets within a session,
// with the exercise resolved and an optional last-performance block.
type PerformanceDetail struct {
	Exercise        ExerciseDetail        `json:"exercise"`
	Sets            []domain.PerformedSet `json:"sets"`
	LastPerformance *LastPerformance      `json:"lastPerformance,omitempty"`
}

// SessionDetail is a workout session with workout, program and exercise
// references resolved.
type SessionDetail struct {
	domain.WorkoutSession
	Workout              *WorkoutDetail      `json:"workout"`
	Program              *domain.Program     `json:"program,omitempty"`
	ExercisePerformances []PerformanceDetail `json:"exercisePerformances"`
}

// Populater resolves entity references into view snapshots. All lookups
// are batched $in queries feeding id-keyed maps; references are
// unidirectional (child holds parent id), so there are no cycles to
// guard against.
type Populater struct {
	muscleRepo   repository.MuscleRepository
	exerciseRepo repository.ExerciseRepository
	workoutRepo  repository.WorkoutRepository
	programRepo  repository.ProgramRepository
	fileStorage  storage.FileStorage
}

// NewPopulater creates a new Populater.
func NewPopulater(
	muscleRepo repository.MuscleRepository,
	exerciseRepo repository.ExerciseRepository,
	workoutRepo repository.WorkoutRepository,
	programRepo repository.ProgramRepository,
	fileStorage storage.FileStorage,
) *Populater {
	return &Populater{
		muscleRepo:   muscleRepo,
		exerciseRepo: exerciseRepo,
		workoutRepo:  workoutRepo,
		programRepo:  programRepo,
		fileStorage:  fileStorage,
	}
}

// ExerciseDetails resolves muscles and media URLs for the given exercises.
func (p *Populater) ExerciseDetails(ctx context.Context, exercises []domain.Exercise) ([]ExerciseDetail, error) {
	muscleIDSet := make(map[primitive.ObjectID]struct{})
	for _, ex := range exercises {
		for _, id := range ex.MuscleIDs {
			muscleIDSet[id] = struct{}{}
		}
	}

	musclesByID, err := p.musclesByID(ctx, muscleIDSet)
	if err != nil {
		return nil, err
	}

	details := make([]ExerciseDetail, 0, len(exercises))
	for _, ex := range exercises {
		details = append(details, p.exerciseDetail(ctx, ex, musclesByID))
	}
	return details, nil
}

// ExerciseDetailFor resolves a single exercise.
func (p *Populater) ExerciseDetailFor(ctx context.Context, exercise *domain.Exercise) (*ExerciseDetail, error) {
	details, err := p.ExerciseDetails(ctx, []domain.Exercise{*exercise})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// WorkoutDetails resolves exercises (and their muscles) for the given workouts.
func (p *Populater) WorkoutDetails(ctx context.Context, workouts []domain.Workout) ([]WorkoutDetail, error) {
	exerciseIDSet := make(map[primitive.ObjectID]struct{})
	for _, w := range workouts {
		for _, we := range w.Exercises {
			exerciseIDSet[we.ExerciseID] = struct{}{}
		}
	}

	exercisesByID, musclesByID, err := p.exercisesAndMusclesByID(ctx, exerciseIDSet)
	if err != nil {
		return nil, err
	}

	details := make([]WorkoutDetail, 0, len(workouts))
	for _, w := range workouts {
		details = append(details, p.workoutDetail(ctx, w, exercisesByID, musclesByID))
	}
	return details, nil
}

// SessionDetails resolves workout, program, exercise and muscle
// references for the given sessions.
func (p *Populater) SessionDetails(ctx context.Context, sessions []domain.WorkoutSession) ([]SessionDetail, error) {
	workoutIDSet := make(map[primitive.ObjectID]struct{})
	programIDSet := make(map[primitive.ObjectID]struct{})
	exerciseIDSet := make(map[primitive.ObjectID]struct{})
	for _, s := range sessions {
		workoutIDSet[s.WorkoutID] = struct{}{}
		if s.ProgramID != nil {
			programIDSet[*s.ProgramID] = struct{}{}
		}
		for _, perf := range s.ExercisePerformances {
			exerciseIDSet[perf.ExerciseID] = struct{}{}
		}
	}

	workouts, err := p.workoutRepo.GetByIDs(ctx, setToSlice(workoutIDSet))
	if err != nil {
		return nil, err
	}
	workoutsByID := make(map[primitive.ObjectID]domain.Workout, len(workouts))
	for _, w := range workouts {
		workoutsByID[w.ID] = w
		for _, we := range w.Exercises {
			exerciseIDSet[we.ExerciseID] = struct{}{}
		}
	}

	programs, err := p.programRepo.GetByIDs(ctx, setToSlice(programIDSet))
	if err != nil {
		return nil, err
	}
	programsByID := make(map[primitive.ObjectID]domain.Program, len(programs))
	for _, prog := range programs {
		programsByID[prog.ID] = prog
	}

	exercisesByID, musclesByID, err := p.exercisesAndMusclesByID(ctx, exerciseIDSet)
	if err != nil {
		return nil, err
	}

	details := make([]SessionDetail, 0, len(sessions))
	for _, s := range sessions {
		detail := SessionDetail{WorkoutSession: s}

		if w, ok := workoutsByID[s.WorkoutID]; ok {
			wd := p.workoutDetail(ctx, w, exercisesByID, musclesByID)
			detail.Workout = &wd
		}
		if s.ProgramID != nil {
			if prog, ok := programsByID[*s.ProgramID]; ok {
				detail.Program = &prog
			}
		}

		detail.ExercisePerformances = make([]PerformanceDetail, 0, len(s.ExercisePerformances))
		for _, perf := range s.ExercisePerformances {
			pd := PerformanceDetail{Sets: perf.Sets}
			if ex, ok := exercisesByID[perf.ExerciseID]; ok {
				pd.Exercise = p.exerciseDetail(ctx, ex, musclesByID)
			}
			detail.ExercisePerformances = append(detail.ExercisePerformances, pd)
		}

		details = append(details, detail)
	}
	return details, nil
}

// SessionDetailFor resolves a single session.
func (p *Populater) SessionDetailFor(ctx context.Context, session *domain.WorkoutSession) (*SessionDetail, error) {
	details, err := p.SessionDetails(ctx, []domain.WorkoutSession{*session})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (p *Populater) workoutDetail(
	ctx context.Context,
	workout domain.Workout,
	exercisesByID map[primitive.ObjectID]domain.Exercise,
	musclesByID map[primitive.ObjectID]domain.Muscle,
) WorkoutDetail {
	detail := WorkoutDetail{Workout: workout}
	detail.Exercises = make([]WorkoutExerciseDetail, 0, len(workout.Exercises))
	for _, we := range workout.Exercises {
		wed := WorkoutExerciseDetail{Sets: we.Sets}
		if ex, ok := exercisesByID[we.ExerciseID]; ok {
			wed.Exercise = p.exerciseDetail(ctx, ex, musclesByID)
		}
		detail.Exercises = append(detail.Exercises, wed)
	}
	return detail
}

func (p *Populater) exerciseDetail(
	ctx context.Context,
	exercise domain.Exercise,
	musclesByID map[primitive.ObjectID]domain.Muscle,
) ExerciseDetail {
	detail := ExerciseDetail{Exercise: exercise}
	detail.Muscles = make([]domain.Muscle, 0, len(exercise.MuscleIDs))
	for _, id := range exercise.MuscleIDs {
		if m, ok := musclesByID[id]; ok {
			detail.Muscles = append(detail.Muscles, m)
		}
	}

	if exercise.MediaObjectKey != "" && p.fileStorage != nil {
		url, err := p.fileStorage.GeneratePresignedDownloadURL(ctx, exercise.MediaObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			// Media is decoration; the exercise itself is still served.
			logrus.Warnf("failed to presign media for exercise %s: %v", exercise.ID.Hex(), err)
		} else {
			detail.MediaURL = url
		}
	}

	return detail
}

func (p *Populater) exercisesAndMusclesByID(ctx context.Context, exerciseIDSet map[primitive.ObjectID]struct{}) (
	map[primitive.ObjectID]domain.Exercise,
	map[primitive.ObjectID]domain.Muscle,
	error,
) {
	exercises, err := p.exerciseRepo.GetByIDs(ctx, setToSlice(exerciseIDSet))
	if err != nil {
		return nil, nil, err
	}

	exercisesByID := make(map[primitive.ObjectID]domain.Exercise, len(exercises))
	muscleIDSet := make(map[primitive.ObjectID]struct{})
	for _, ex := range exercises {
		exercisesByID[ex.ID] = ex
		for _, id := range ex.MuscleIDs {
			muscleIDSet[id] = struct{}{}
		}
	}

	musclesByID, err := p.musclesByID(ctx, muscleIDSet)
	if err != nil {
		return nil, nil, err
	}

	return exercisesByID, musclesByID, nil
}

func (p *Populater) musclesByID(ctx context.Context, muscleIDSet map[primitive.ObjectID]struct{}) (map[primitive.ObjectID]domain.Muscle, error) {
	muscles, err := p.muscleRepo.GetByIDs(ctx, setToSlice(muscleIDSet))
	if err != nil {
		return nil, err
	}
	musclesByID := make(map[primitive.ObjectID]domain.Muscle, len(muscles))
	for _, m := range muscles {
		musclesByID[m.ID] = m
	}
	return musclesByID, nil
}

func setToSlice(set map[primitive.ObjectID]struct{}) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
