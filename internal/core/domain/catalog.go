package domain

import "errors"

var (
	ErrInvalidExerciseCategory = errors.New("invalid exercise category")
	ErrInvalidActivityCategory = errors.New("invalid activity category (must be Workout, Cardio or Sport)")
	ErrInvalidIcon             = errors.New("invalid activity icon")
)

type ExerciseCategory string

const (
	ExerciseCategoryUpperBody ExerciseCategory = "Upper Body"
	ExerciseCategoryLowerBody ExerciseCategory = "Lower Body"
	ExerciseCategoryCore      ExerciseCategory = "Core"
	ExerciseCategoryCardio    ExerciseCategory = "Cardio"
	ExerciseCategoryFullBody  ExerciseCategory = "Full Body"
)

func ExerciseCategories() []ExerciseCategory {
	return []ExerciseCategory{
		ExerciseCategoryUpperBody,
		ExerciseCategoryLowerBody,
		ExerciseCategoryCore,
		ExerciseCategoryCardio,
		ExerciseCategoryFullBody,
	}
}

func (c ExerciseCategory) Valid() bool {
	for _, known := range ExerciseCategories() {
		if c == known {
			return true
		}
	}
	return false
}

type ActivityCategory string

const (
	ActivityCategoryWorkout ActivityCategory = "Workout"
	ActivityCategoryCardio  ActivityCategory = "Cardio"
	ActivityCategorySport   ActivityCategory = "Sport"
)

// ActivityCategories returns the categories in display order. Stats
// breakdowns follow the same order.
func ActivityCategories() []ActivityCategory {
	return []ActivityCategory{
		ActivityCategoryWorkout,
		ActivityCategoryCardio,
		ActivityCategorySport,
	}
}

func (c ActivityCategory) Valid() bool {
	for _, known := range ActivityCategories() {
		if c == known {
			return true
		}
	}
	return false
}

type Icon string

const (
	IconDumbbell   Icon = "Dumbbell"
	IconWind       Icon = "Wind"
	IconZap        Icon = "Zap"
	IconHeartPulse Icon = "HeartPulse"
	IconFlame      Icon = "Flame"
	IconTarget     Icon = "Target"
	DefaultIcon         = IconDumbbell
)

func Icons() []Icon {
	return []Icon{IconDumbbell, IconWind, IconZap, IconHeartPulse, IconFlame, IconTarget}
}

func (i Icon) Valid() bool {
	for _, known := range Icons() {
		if i == known {
			return true
		}
	}
	return false
}

type Exercise struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Details  string           `json:"details"`
	Category ExerciseCategory `json:"category"`
}

var masterExercises = []Exercise{
	// Lower Body
	{ID: "ex01", Name: "Goblet Squat", Details: "Hold one dumbbell vertically against your chest. Stand with feet slightly wider than shoulder-width. Lower your hips back and down. Drive through your heels to return.", Category: ExerciseCategoryLowerBody},
	{ID: "ex04", Name: "Glute Bridge (Weighted)", Details: "Lie on your back, knees bent. Place a dumbbell on your hips. Squeeze glutes to lift hips until your body is a straight line from shoulders to knees.", Category: ExerciseCategoryLowerBody},
	{ID: "ex06", Name: "Romanian Deadlifts (RDLs)", Details: "Slight bend in knees, hinge at hips pushing glutes back. Lower dumbbells down your legs with a flat back. Squeeze glutes to stand up.", Category: ExerciseCategoryLowerBody},
	{ID: "ex08", Name: "Bulgarian Split Squat", Details: "Rear foot on a bench. Lower until your front thigh is parallel to the floor. Complete all reps on one side before switching.", Category: ExerciseCategoryLowerBody},
	{ID: "ex11", Name: "Dumbbell Lunges", Details: "Step forward and lower hips until both knees are at a 90-degree angle. Push off the front foot to return. Alternate legs.", Category: ExerciseCategoryLowerBody},
	{ID: "ex14", Name: "Band Lateral Walks", Details: "Band around ankles/knees. In a half-squat, step sideways, keeping tension on the band.", Category: ExerciseCategoryLowerBody},
	{ID: "ex25", Name: "Calf Raises", Details: "Stand holding dumbbells at your sides. Push through the balls of your feet to raise your heels as high as possible. Pause, then lower.", Category: ExerciseCategoryLowerBody},
	{ID: "ex30", Name: "Squat Jumps", Details: "Perform a regular bodyweight squat, but explode upwards into a jump. Land softly and immediately go into the next squat.", Category: ExerciseCategoryCardio},
	{ID: "ex31", Name: "Box Jumps", Details: "Stand in front of a sturdy box or bench. Jump up, landing softly on both feet. Step back down.", Category: ExerciseCategoryLowerBody},
	{ID: "ex32", Name: "Hip Thrusts (Weighted)", Details: "Rest your upper back on a bench, with your feet on the floor. Place a dumbbell or barbell across your hips. Drive your hips up, squeezing your glutes.", Category: ExerciseCategoryLowerBody},

	// Upper Body
	{ID: "ex02", Name: "Push-ups", Details: "High plank position, hands under shoulders. Lower your body until your chest is just above the floor. Push back up forcefully. Modify by putting knees on the floor if needed.", Category: ExerciseCategoryUpperBody},
	{ID: "ex03", Name: "Bent-Over Dumbbell Row", Details: "Hinge at your hips with a straight back. Pull dumbbells up towards your chest, squeezing shoulder blades. Lower with control.", Category: ExerciseCategoryUpperBody},
	{ID: "ex07", Name: "Dumbbell Bench Press", Details: "Lie on a bench, press dumbbells straight up from your chest. Lower slowly. Can be done on the floor.", Category: ExerciseCategoryUpperBody},
	{ID: "ex09", Name: "Resistance Band Pull-Apart", Details: "Hold a band with arms straight out. Pull the band apart by squeezing your shoulder blades.", Category: ExerciseCategoryUpperBody},
	{ID: "ex12", Name: "Overhead Press", Details: "From shoulder height, press dumbbells straight overhead. Lower back to shoulders with control. Keep core tight.", Category: ExerciseCategoryUpperBody},
	{ID: "ex13", Name: "Single-Arm Dumbbell Row", Details: "Support yourself on a bench. Pull a dumbbell up to your chest with a flat back. Complete all reps on one side before switching.", Category: ExerciseCategoryUpperBody},
	{ID: "ex23", Name: "Bicep Curls", Details: "Stand or sit, holding dumbbells at your sides, palms facing forward. Curl the weights up to your shoulders, keeping your elbows stationary. Lower with control.", Category: ExerciseCategoryUpperBody},
	{ID: "ex24", Name: "Tricep Kickbacks", Details: "Hinge at the hips with a flat back, supporting yourself with one hand on a bench. Hold a dumbbell in the other hand with your elbow bent at 90 degrees. Extend your arm straight back, squeezing your tricep. Return to the start.", Category: ExerciseCategoryUpperBody},
	{ID: "ex27", Name: "Face Pulls (Band)", Details: "Anchor a resistance band at chest height. Pull the band towards your face, leading with your hands and squeezing your rear deltoids.", Category: ExerciseCategoryUpperBody},
	{ID: "ex33", Name: "Incline Dumbbell Press", Details: "Lie on an incline bench. Press dumbbells up from your upper chest. This targets the upper pecs more.", Category: ExerciseCategoryUpperBody},
	{ID: "ex34", Name: "Pull-ups / Chin-ups", Details: "Hang from a bar. Pull your chest up to the bar. Use assistance bands or a machine if needed.", Category: ExerciseCategoryUpperBody},
	{ID: "ex35", Name: "Dumbbell Lateral Raises", Details: "Stand with dumbbells at your sides. Raise your arms out to the sides until they are parallel with the floor. Lower with control.", Category: ExerciseCategoryUpperBody},
	{ID: "ex36", Name: "Dips", Details: "Using parallel bars or a sturdy bench, lower your body until your elbows are at a 90-degree angle, then press back up.", Category: ExerciseCategoryUpperBody},

	// Core
	{ID: "ex05", Name: "Plank", Details: "Hold a straight line from head to heels on your forearms. Engage core and glutes.", Category: ExerciseCategoryCore},
	{ID: "ex10", Name: "Lying Leg Raises", Details: "Lie on your back, raise legs straight up to perpendicular, then lower slowly without touching the floor.", Category: ExerciseCategoryCore},
	{ID: "ex15", Name: "Side Plank", Details: "Prop yourself up on your forearm, creating a straight line from ankles to head. Hold.", Category: ExerciseCategoryCore},
	{ID: "ex26", Name: "Russian Twists", Details: "Sit on the floor, leaning back with your knees bent. Hold a dumbbell with both hands. Twist your torso from side to side, tapping the dumbbell on the floor next to you.", Category: ExerciseCategoryCore},
	{ID: "ex37", Name: "Hanging Knee Raises", Details: "Hang from a pull-up bar. Raise your knees up towards your chest without swinging. Lower slowly.", Category: ExerciseCategoryCore},
	{ID: "ex38", Name: "Crunches", Details: "Lie on your back with knees bent. Lift your upper back off the floor. Focus on using your abs.", Category: ExerciseCategoryCore},
	{ID: "ex39", Name: "Bird-Dog", Details: "Start on all fours. Extend your right arm forward and your left leg back simultaneously. Keep your core tight and back flat. Alternate sides.", Category: ExerciseCategoryCore},

	// Full Body / Cardio
	{ID: "ex16", Name: "Dumbbell Thrusters", Details: "Hold two dumbbells at your shoulders. Drop into a full squat, and as you drive back up, use the momentum to press the dumbbells overhead.", Category: ExerciseCategoryFullBody},
	{ID: "ex17", Name: "Burpees", Details: "From a standing position, drop into a squat, place your hands on the floor, kick your feet back into a plank, perform a push-up, jump your feet back to your hands, and explosively jump up with your arms overhead.", Category: ExerciseCategoryFullBody},
	{ID: "ex20", Name: "Dumbbell Swings", Details: "Hold one end of a dumbbell with both hands. Hinge at your hips, letting the dumbbell swing back between your legs. Then, explosively thrust your hips forward to swing the dumbbell up to chest height. This is a hip movement, not an arm lift.", Category: ExerciseCategoryFullBody},
	{ID: "ex40", Name: "Mountain Climbers", Details: "In a high plank position, alternate driving your knees towards your chest as if you are running in place.", Category: ExerciseCategoryCardio},
	{ID: "ex41", Name: "Jumping Jacks", Details: "A classic cardio move. Jump your feet out wide while raising your arms overhead.", Category: ExerciseCategoryCardio},
	{ID: "ex42", Name: "High Knees", Details: "Run in place, bringing your knees up as high as possible.", Category: ExerciseCategoryCardio},
	{ID: "ex43", Name: "Man Makers", Details: "A complex move: from a plank, do a push-up, then a row with each arm, jump feet in, and stand up into a dumbbell press.", Category: ExerciseCategoryFullBody},
}

// MasterExercises returns a copy of the built-in exercise library.
func MasterExercises() []Exercise {
	out := make([]Exercise, len(masterExercises))
	copy(out, masterExercises)
	return out
}

// exercisesByName picks master exercises in library order, matching the
// way the example templates were assembled.
func exercisesByName(names ...string) []Exercise {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []Exercise
	for _, ex := range masterExercises {
		if wanted[ex.Name] {
			out = append(out, ex)
		}
	}
	return out
}

func DefaultHabits() []Habit {
	return []Habit{
		{ID: "hydrate", Name: "Drink 3L Water"},
		{ID: "sleep", Name: "Sleep 7.5+ Hours"},
		{ID: "protein", Name: "Hit Protein Goal"},
	}
}

// ExampleActivities returns the templates seeded into an empty activity
// collection. IDs and owners are assigned at seeding time.
func ExampleActivities() []Activity {
	return []Activity{
		{
			Name:        "Full Body Strength",
			Category:    ActivityCategoryWorkout,
			Description: "A balanced workout hitting all major muscle groups.",
			Icon:        IconDumbbell,
			Exercises:   exercisesByName("Goblet Squat", "Dumbbell Bench Press", "Bent-Over Dumbbell Row", "Overhead Press", "Plank"),
		},
		{
			Name:        "Push Day",
			Category:    ActivityCategoryWorkout,
			Description: "Focus on chest, shoulders, and triceps.",
			Icon:        IconDumbbell,
			Exercises:   exercisesByName("Push-ups", "Incline Dumbbell Press", "Overhead Press", "Dumbbell Lateral Raises", "Dips"),
		},
		{
			Name:        "Pull Day",
			Category:    ActivityCategoryWorkout,
			Description: "Focus on back and biceps.",
			Icon:        IconDumbbell,
			Exercises:   exercisesByName("Pull-ups / Chin-ups", "Bent-Over Dumbbell Row", "Single-Arm Dumbbell Row", "Face Pulls (Band)", "Bicep Curls"),
		},
		{
			Name:        "Leg Day",
			Category:    ActivityCategoryWorkout,
			Description: "A challenging lower body and core session.",
			Icon:        IconDumbbell,
			Exercises:   exercisesByName("Goblet Squat", "Romanian Deadlifts (RDLs)", "Bulgarian Split Squat", "Calf Raises", "Lying Leg Raises"),
		},
		{
			Name:        "HIIT Cardio",
			Category:    ActivityCategoryWorkout,
			Description: "High-Intensity Interval Training for maximum calorie burn.",
			Icon:        IconFlame,
			Exercises:   exercisesByName("Burpees", "Squat Jumps", "Mountain Climbers", "High Knees", "Jumping Jacks"),
		},
		{
			Name:        "Steady Run",
			Category:    ActivityCategoryCardio,
			Description: "A distance-focused cardio session.",
			Icon:        IconWind,
			Exercises:   []Exercise{},
		},
		{
			Name:        "Tennis Match",
			Category:    ActivityCategorySport,
			Description: "A competitive or casual game.",
			Icon:        IconTarget,
			Exercises:   []Exercise{},
		},
	}
}
