package entity

import (
	"time"
)

// Location value meaning "no particular country/region".
const GlobalLocation = "Global"

type Level string

const (
	LevelBronze   Level = "Bronze"
	LevelSilver   Level = "Silver"
	LevelGold     Level = "Gold"
	LevelPlatinum Level = "Platinum"
	LevelDiamond  Level = "Diamond"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

type TaskStatus string

const (
	StatusComplete   TaskStatus = "complete"
	StatusIncomplete TaskStatus = "incomplete"
)

type Timeframe string

const (
	TimeframeShort  Timeframe = "short-term"
	TimeframeMedium Timeframe = "medium-term"
	TimeframeLong   Timeframe = "long-term"
)

type AchievementCategory string

const (
	AchievementCompletion AchievementCategory = "completion"
	AchievementPriority   AchievementCategory = "priority"
	AchievementStreak     AchievementCategory = "streak"
)

type LeaderboardScope string

const (
	ScopeGlobal  LeaderboardScope = "global"
	ScopeCountry LeaderboardScope = "country"
	ScopeRegion  LeaderboardScope = "region"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Score        int       `json:"score"`
	Level        Level     `json:"level"`
	Region       string    `json:"region"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	UserID *int64 `json:"user_id"`
}

type Task struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	DueDate      *time.Time `json:"due_date"`
	Priority     Priority   `json:"priority"`
	Status       TaskStatus `json:"status"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at"`
	Points       int        `json:"points"`
	Difficulty   Difficulty `json:"difficulty"`
	CategoryID   *int64     `json:"category_id"`
	UserID       *int64     `json:"user_id"`
	HasReminder  bool       `json:"has_reminder"`
	ReminderTime *int       `json:"reminder_time"`
	IsGoalTask   bool       `json:"is_goal_task"`
	GoalID       *int64     `json:"goal_id"`
	CreatedAt    time.Time  `json:"created_at"`
}

type Goal struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Category    string     `json:"category"`
	Timeframe   Timeframe  `json:"timeframe"`
	Progress    int        `json:"progress"`
	Roadmap     *Roadmap   `json:"roadmap"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Roadmap is the plan produced by the roadmap generator. A roadmap that
// could not be generated carries only Error.
type Roadmap struct {
	Overview       string        `json:"overview,omitempty"`
	Milestones     []Milestone   `json:"milestones,omitempty"`
	WeeklyPlan     []WeeklyFocus `json:"weekly_plan,omitempty"`
	MonthlyGoals   []MonthlyGoal `json:"monthly_goals,omitempty"`
	Resources      []string      `json:"resources,omitempty"`
	Tips           []string      `json:"tips,omitempty"`
	Challenges     []string      `json:"challenges,omitempty"`
	SuccessMetrics []string      `json:"success_metrics,omitempty"`
	Error          string        `json:"error,omitempty"`
}

type Milestone struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Duration    string        `json:"duration,omitempty"`
	Tasks       []RoadmapTask `json:"tasks"`
}

type RoadmapTask struct {
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Priority      string   `json:"priority,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
	EstimatedTime string   `json:"estimated_time,omitempty"`
	Resources     []string `json:"resources,omitempty"`
}

type WeeklyFocus struct {
	Week  int      `json:"week"`
	Focus string   `json:"focus"`
	Tasks []string `json:"tasks,omitempty"`
}

type MonthlyGoal struct {
	Month   int      `json:"month"`
	Focus   string   `json:"focus"`
	Targets []string `json:"targets,omitempty"`
}

type Achievement struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Points      int                 `json:"points"`
	Requirement int                 `json:"requirement"`
	Category    AchievementCategory `json:"category"`
}

type UserAchievement struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	AchievementID int64     `json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Level    Level  `json:"level"`
	Region   string `json:"region,omitempty"`
	Country  string `json:"country,omitempty"`
}

type TaskStats struct {
	TotalTasks   int `json:"total_tasks"`
	DueToday     int `json:"due_today"`
	Completed    int `json:"completed"`
	HighPriority int `json:"high_priority"`
}
