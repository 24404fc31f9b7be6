package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the handlers depend on.
type Services struct {
	Users           service.UserService
	Measurements    service.MeasurementService
	Muscles         service.MuscleService
	ExerciseMuscles service.ExerciseMuscleService
	Exercises       service.ExerciseService
	Workouts        service.WorkoutService
	Routines        service.RoutineService
	Imports         service.ImportService
}

// NewServices wires every service onto one set of repositories.
func NewServices(repos repository.Repositories, cfg config.Config) Services {
	return Services{
		Users:           service.NewUserService(repos),
		Measurements:    service.NewMeasurementService(repos),
		Muscles:         service.NewMuscleService(repos),
		ExerciseMuscles: service.NewExerciseMuscleService(repos),
		Exercises:       service.NewExerciseService(repos),
		Workouts:        service.NewWorkoutService(repos, cfg.Workout, nil),
		Routines:        service.NewRoutineService(repos),
		Imports:         service.NewImportService(repos, nil),
	}
}

func SetupRoutes(router *gin.Engine, cfg config.Config, services Services) {
	userHandler := NewUserHandler(services.Users, services.Measurements)
	exerciseHandler := NewExerciseHandler(services.Exercises, services.Muscles, services.ExerciseMuscles)
	workoutHandler := NewWorkoutHandler(services.Workouts, services.Imports, cfg.Workout, cfg.Import)
	routineHandler := NewRoutineHandler(services.Routines, cfg.Workout)

	router.Use(RequestID(), RequestLogger(), Recovery(), metrics.Middleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", metrics.Handler())

	apiV1 := router.Group("/api/v1")

	// --- Users ---
	users := apiV1.Group("/users")
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}
	measurements := apiV1.Group("/body_measurements")
	{
		measurements.POST("", userHandler.CreateMeasurement)
		measurements.GET("", userHandler.ListMeasurements)
		measurements.GET("/:id", userHandler.GetMeasurement)
		measurements.PUT("/:id", userHandler.UpdateMeasurement)
		measurements.DELETE("/:id", userHandler.DeleteMeasurement)
	}

	// --- Exercise catalog ---
	exercises := apiV1.Group("/exercises")
	{
		exercises.POST("", exerciseHandler.CreateExercise)
		exercises.GET("", exerciseHandler.ListExercises)
		exercises.GET("/:id", exerciseHandler.GetExercise)
		exercises.PUT("/:id", exerciseHandler.UpdateExercise)
		exercises.DELETE("/:id", exerciseHandler.DeleteExercise)
		exercises.GET("/:id/usage", exerciseHandler.ExerciseUsage)
		exercises.POST("/:id/delete", exerciseHandler.DeleteExerciseWithMigration)
		exercises.GET("/:id/last_set", exerciseHandler.LastSet)
	}
	muscles := apiV1.Group("/muscles")
	{
		muscles.POST("", exerciseHandler.CreateMuscle)
		muscles.GET("", exerciseHandler.ListMuscles)
		muscles.GET("/:id", exerciseHandler.GetMuscle)
		muscles.PUT("/:id", exerciseHandler.UpdateMuscle)
		muscles.DELETE("/:id", exerciseHandler.DeleteMuscle)
	}
	links := apiV1.Group("/exercise_muscles")
	{
		links.POST("", exerciseHandler.CreateExerciseMuscle)
		links.GET("", exerciseHandler.ListExerciseMuscles)
		links.GET("/:exercise_id/:muscle_id", exerciseHandler.GetExerciseMuscle)
		links.PUT("/:exercise_id/:muscle_id", exerciseHandler.UpdateExerciseMuscle)
		links.DELETE("/:exercise_id/:muscle_id", exerciseHandler.DeleteExerciseMuscle)
	}

	// --- Workouts ---
	workouts := apiV1.Group("/workouts")
	{
		workouts.POST("", workoutHandler.CreateWorkout)
		workouts.GET("", workoutHandler.ListWorkouts)
		workouts.GET("/active", workoutHandler.ActiveWorkout)
		workouts.GET("/suggested", workoutHandler.SuggestedWorkout)
		workouts.POST("/import", workoutHandler.ImportWorkouts)
		workouts.GET("/:id", workoutHandler.GetWorkout)
		workouts.PUT("/:id", workoutHandler.UpdateWorkout)
		workouts.DELETE("/:id", workoutHandler.DeleteWorkout)
		workouts.PUT("/:id/finish", workoutHandler.FinishWorkout)
		workouts.PUT("/:id/reopen", workoutHandler.ReopenWorkout)
		workouts.POST("/:id/reorder", workoutHandler.ReorderWorkout)
		workouts.POST("/:id/exercises", workoutHandler.AddWorkoutExercise)
	}
	workoutExercises := apiV1.Group("/workout_exercises")
	{
		workoutExercises.POST("", workoutHandler.CreateWorkoutExercise)
		workoutExercises.GET("", workoutHandler.ListWorkoutExercises)
		workoutExercises.GET("/:id", workoutHandler.GetWorkoutExercise)
		workoutExercises.PUT("/:id", workoutHandler.UpdateWorkoutExercise)
		workoutExercises.DELETE("/:id", workoutHandler.DeleteWorkoutExercise)
	}
	workoutSets := apiV1.Group("/workout_sets")
	{
		workoutSets.POST("", workoutHandler.CreateWorkoutSet)
		workoutSets.GET("", workoutHandler.ListWorkoutSets)
		workoutSets.GET("/:id", workoutHandler.GetWorkoutSet)
		workoutSets.PUT("/:id", workoutHandler.UpdateWorkoutSet)
		workoutSets.DELETE("/:id", workoutHandler.DeleteWorkoutSet)
	}

	// --- Routines ---
	routines := apiV1.Group("/routines")
	{
		routines.POST("", routineHandler.CreateRoutine)
		routines.GET("", routineHandler.ListRoutines)
		routines.GET("/active/schedule", routineHandler.ActiveSchedule)
		routines.GET("/:id", routineHandler.GetRoutine)
		routines.PUT("/:id", routineHandler.UpdateRoutine)
		routines.DELETE("/:id", routineHandler.DeleteRoutine)
		routines.POST("/:id/activate", routineHandler.ActivateRoutine)
	}
	routineDays := apiV1.Group("/routine_days")
	{
		routineDays.POST("", routineHandler.CreateRoutineDay)
		routineDays.GET("", routineHandler.ListRoutineDays)
		routineDays.GET("/:id", routineHandler.GetRoutineDay)
		routineDays.PUT("/:id", routineHandler.UpdateRoutineDay)
		routineDays.DELETE("/:id", routineHandler.DeleteRoutineDay)
		routineDays.POST("/:id/exercises", routineHandler.AddRoutineExercise)
		routineDays.POST("/:id/reorder", routineHandler.ReorderRoutineDay)
	}
	routineExercises := apiV1.Group("/routine_exercises")
	{
		routineExercises.POST("", routineHandler.CreateRoutineExercise)
		routineExercises.GET("", routineHandler.ListRoutineExercises)
		routineExercises.GET("/:id", routineHandler.GetRoutineExercise)
		routineExercises.PUT("/:id", routineHandler.UpdateRoutineExercise)
		routineExercises.DELETE("/:id", routineHandler.DeleteRoutineExercise)
	}
}
