package api_test

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limbo/questboard/internal/api"
	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/internal/service"
	"github.com/limbo/questboard/internal/service/mocks"
	"github.com/limbo/questboard/pkg/entity"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

func ptr[T any](v T) *T {
	return &v
}

func marshal(t *testing.T, v any) []byte {
	t.Helper()
	body, err := sonic.ConfigDefault.Marshal(v)
	require.NoError(t, err)
	return body
}

func serve(serv http.Handler, method, target string, body []byte, header ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	r := httptest.NewRequest(method, target, reader)
	for i := 0; i+1 < len(header); i += 2 {
		r.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	serv.ServeHTTP(rr, r)
	return rr
}

func TestCreateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	uService := mocks.NewMockUserServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		UserService: uService,
	})
	req := service.CreateUserRequest{
		Username: "test_user",
		Password: "test_password",
		Region:   "Europe",
	}
	body := marshal(t, req)

	testCases := []struct {
		name         string
		ExpectedCode int
		MockPrepFunc func()
		Body         []byte
	}{
		{
			name:         "created",
			ExpectedCode: http.StatusCreated,
			MockPrepFunc: func() {
				uService.EXPECT().Create(gomock.Any(), &req).Return(&entity.User{
					ID:       1,
					Username: req.Username,
					Level:    entity.LevelBronze,
					Region:   req.Region,
					Country:  entity.GlobalLocation,
				}, nil)
			},
			Body: body,
		},
		{
			name:         "username taken",
			ExpectedCode: http.StatusConflict,
			MockPrepFunc: func() {
				uService.EXPECT().Create(gomock.Any(), &req).Return(nil, errorvalues.ErrUserExists)
			},
			Body: body,
		},
		{
			name:         "validation",
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {
				uService.EXPECT().Create(gomock.Any(), &req).Return(nil, errors.Join(errorvalues.ErrValidation, errors.New("password")))
			},
			Body: body,
		},
		{
			name:         "service error",
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				uService.EXPECT().Create(gomock.Any(), &req).Return(nil, errors.New("service error"))
			},
			Body: body,
		},
		{
			name:         "corrupted body",
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
			Body:         []byte("corrupted"),
		},
		{
			name:         "empty body",
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := serve(serv, http.MethodPost, "/api/users", tc.Body)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
			if tc.ExpectedCode == http.StatusCreated {
				var user entity.User
				require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Body).Decode(&user))
				assert.Equal(t, int64(1), user.ID)
				assert.NotContains(t, rr.Body.String(), "password")
			}
		})
	}
}

func TestGetUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	uService := mocks.NewMockUserServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		UserService: uService,
	})

	uService.EXPECT().GetByID(gomock.Any(), int64(7)).Return(&entity.User{ID: 7, Username: "test_user"}, nil)
	rr := serve(serv, http.MethodGet, "/api/users/7", nil)
	assert.Equal(t, http.StatusOK, rr.Result().StatusCode)

	uService.EXPECT().GetByID(gomock.Any(), int64(8)).Return(nil, errorvalues.ErrUserNotFound)
	rr = serve(serv, http.MethodGet, "/api/users/8", nil)
	assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)

	for _, id := range []string{"abc", "0", "-3"} {
		rr = serve(serv, http.MethodGet, "/api/users/"+id, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode, id)
	}

	uService.EXPECT().UpdateLocation(gomock.Any(), int64(7), &service.UpdateUserRequest{Country: ptr("Peru")}).
		Return(&entity.User{ID: 7, Country: "Peru"}, nil)
	rr = serve(serv, http.MethodPatch, "/api/users/7", []byte(`{"country":"Peru"}`))
	assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
}

func TestCreateTaskActor(t *testing.T) {
	ctrl := gomock.NewController(t)
	tService := mocks.NewMockTasksServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		TasksService:  tService,
		DefaultUserID: 1,
	})
	body := []byte(`{"title":"write report","priority":"high"}`)
	expect := func(uid *int64) {
		tService.EXPECT().CreateTask(gomock.Any(), &service.CreateTaskRequest{
			Title:    "write report",
			Priority: entity.PriorityHigh,
			UserID:   uid,
		}).Return(&entity.Task{ID: 3, Title: "write report", UserID: uid}, nil)
	}

	t.Run("default actor", func(t *testing.T) {
		expect(ptr(int64(1)))
		rr := serve(serv, http.MethodPost, "/api/tasks", body)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("actor header", func(t *testing.T) {
		expect(ptr(int64(5)))
		rr := serve(serv, http.MethodPost, "/api/tasks", body, "X-User-ID", "5")
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("explicit owner wins", func(t *testing.T) {
		expect(ptr(int64(9)))
		rr := serve(serv, http.MethodPost, "/api/tasks",
			[]byte(`{"title":"write report","priority":"high","user_id":9}`), "X-User-ID", "5")
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("malformed header", func(t *testing.T) {
		rr := serve(serv, http.MethodPost, "/api/tasks", body, "X-User-ID", "me")
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("request id", func(t *testing.T) {
		expect(ptr(int64(1)))
		rr := serve(serv, http.MethodPost, "/api/tasks", body)
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})
}

func TestSetTaskStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	tService := mocks.NewMockTasksServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		TasksService: tService,
	})
	body := []byte(`{"status":"complete"}`)

	testCases := []struct {
		name         string
		ExpectedCode int
		MockPrepFunc func()
		Path         string
		Body         []byte
	}{
		{
			name:         "completed",
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				tService.EXPECT().SetTaskStatus(gomock.Any(), int64(4), entity.StatusComplete).Return(&service.StatusChange{
					Task:          &entity.Task{ID: 4, Status: entity.StatusComplete, Completed: true},
					PointsAwarded: 23,
					User:          &entity.User{ID: 1, Score: 33},
					Unlocked:      []*entity.Achievement{{ID: 1, Name: "First Task Complete"}},
				}, nil)
			},
			Path: "/api/tasks/4/status",
			Body: body,
		},
		{
			name:         "task not found",
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				tService.EXPECT().SetTaskStatus(gomock.Any(), int64(4), entity.StatusComplete).Return(nil, errorvalues.ErrTaskNotFound)
			},
			Path: "/api/tasks/4/status",
			Body: body,
		},
		{
			name:         "invalid status",
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {
				tService.EXPECT().SetTaskStatus(gomock.Any(), int64(4), entity.TaskStatus("done")).Return(nil, errorvalues.ErrValidation)
			},
			Path: "/api/tasks/4/status",
			Body: []byte(`{"status":"done"}`),
		},
		{
			name:         "service error",
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				tService.EXPECT().SetTaskStatus(gomock.Any(), int64(4), entity.StatusComplete).Return(nil, errors.New("service error"))
			},
			Path: "/api/tasks/4/status",
			Body: body,
		},
		{
			name:         "invalid id",
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
			Path:         "/api/tasks/four/status",
			Body:         body,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := serve(serv, http.MethodPut, tc.Path, tc.Body)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
			if tc.ExpectedCode == http.StatusOK {
				var change service.StatusChange
				require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Body).Decode(&change))
				assert.Equal(t, 23, change.PointsAwarded)
				assert.Len(t, change.Unlocked, 1)
			}
		})
	}
}

func TestListTasksFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	tService := mocks.NewMockTasksServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		TasksService: tService,
	})

	tService.EXPECT().ListTasks(gomock.Any(), service.TaskFilter{}).Return([]*entity.Task{{ID: 1}, {ID: 2}}, nil)
	rr := serve(serv, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rr.Result().StatusCode)
	var tasks []*entity.Task
	require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Body).Decode(&tasks))
	assert.Len(t, tasks, 2)

	tService.EXPECT().ListTasks(gomock.Any(), service.TaskFilter{UserID: ptr(int64(2)), GoalID: ptr(int64(6))}).
		Return([]*entity.Task{}, nil)
	rr = serve(serv, http.MethodGet, "/api/tasks?user_id=2&goal_id=6", nil)
	assert.Equal(t, http.StatusOK, rr.Result().StatusCode)

	rr = serve(serv, http.MethodGet, "/api/tasks?category_id=x", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)

	tService.EXPECT().DeleteTask(gomock.Any(), int64(2)).Return(nil)
	rr = serve(serv, http.MethodDelete, "/api/tasks/2", nil)
	assert.Equal(t, http.StatusNoContent, rr.Result().StatusCode)

	tService.EXPECT().Stats(gomock.Any()).Return(&entity.TaskStats{TotalTasks: 2}, nil)
	rr = serve(serv, http.MethodGet, "/api/stats", nil)
	assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
}

func TestCreateGoalHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	gService := mocks.NewMockGoalsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		GoalsService:  gService,
		DefaultUserID: 1,
	})
	body := []byte(`{"title":"Run a 10k","category":"Health","timeframe":"short-term"}`)
	req := &service.CreateGoalRequest{
		UserID:    1,
		Title:     "Run a 10k",
		Category:  "Health",
		Timeframe: entity.TimeframeShort,
	}

	gService.EXPECT().CreateGoal(gomock.Any(), req).Return(&service.GoalPlan{
		Goal:  &entity.Goal{ID: 2, UserID: 1, Roadmap: &entity.Roadmap{Error: errorvalues.ErrRoadmapGeneration.Error()}},
		Tasks: []*entity.Task{},
	}, nil)
	rr := serve(serv, http.MethodPost, "/api/goals", body)
	assert.Equal(t, http.StatusCreated, rr.Result().StatusCode, "degraded roadmap still creates goal")

	gService.EXPECT().CreateGoal(gomock.Any(), req).Return(nil, errorvalues.ErrUserNotFound)
	rr = serve(serv, http.MethodPost, "/api/goals", body)
	assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)

	gService.EXPECT().GoalTasks(gomock.Any(), int64(2)).Return(nil, errorvalues.ErrGoalNotFound)
	rr = serve(serv, http.MethodGet, "/api/goals/2/tasks", nil)
	assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
}

func TestGamificationHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	aService := mocks.NewMockAchievementsServiceI(ctrl)
	lService := mocks.NewMockLeaderboardServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		AchievementsService: aService,
		LeaderboardService:  lService,
	})

	t.Run("award conflict", func(t *testing.T) {
		aService.EXPECT().Award(gomock.Any(), &service.AwardRequest{UserID: 1, AchievementID: 3}).
			Return(nil, errorvalues.ErrAchievementEarned)
		rr := serve(serv, http.MethodPost, "/api/achievements/award", []byte(`{"user_id":1,"achievement_id":3}`))
		assert.Equal(t, http.StatusConflict, rr.Result().StatusCode)
	})
	t.Run("award unknown achievement", func(t *testing.T) {
		aService.EXPECT().Award(gomock.Any(), &service.AwardRequest{UserID: 1, AchievementID: 99}).
			Return(nil, errorvalues.ErrAchievementNotFound)
		rr := serve(serv, http.MethodPost, "/api/achievements/award", []byte(`{"user_id":1,"achievement_id":99}`))
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("leaderboard default limit", func(t *testing.T) {
		lService.EXPECT().GetLeaderboard(gomock.Any(), entity.ScopeGlobal, service.DefaultLeaderboardLimit).
			Return([]*entity.LeaderboardEntry{{UserID: 1, Username: "eli", Score: 900, Rank: 1}}, nil)
		rr := serve(serv, http.MethodGet, "/api/leaderboard/global?limit=abc", nil)
		require.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var entries []*entity.LeaderboardEntry
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Body).Decode(&entries))
		assert.Equal(t, "eli", entries[0].Username)
	})
	t.Run("leaderboard limit", func(t *testing.T) {
		lService.EXPECT().GetLeaderboard(gomock.Any(), entity.ScopeCountry, 3).Return([]*entity.LeaderboardEntry{}, nil)
		rr := serve(serv, http.MethodGet, "/api/leaderboard/country?limit=3", nil)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("invalid scope", func(t *testing.T) {
		lService.EXPECT().GetLeaderboard(gomock.Any(), entity.LeaderboardScope("planet"), service.DefaultLeaderboardLimit).
			Return(nil, errorvalues.ErrInvalidScope)
		rr := serve(serv, http.MethodGet, "/api/leaderboard/planet", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("user rank", func(t *testing.T) {
		lService.EXPECT().GetUserRank(gomock.Any(), int64(4), entity.ScopeRegion).Return(-1, nil)
		rr := serve(serv, http.MethodGet, "/api/leaderboard/user/4/region", nil)
		require.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.UserRankResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, api.UserRankResponse{UserID: 4, Type: entity.ScopeRegion, Rank: -1}, resp)
	})
}
