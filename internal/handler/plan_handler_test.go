package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePlan(t *testing.T) {
	e := setupTest(t)
	cookie := signupAndLogin(t, e, "alice@example.com", "alice")
	goal := createGoal(t, e, cookie, echo.Map{"title": "Run", "target_value": 10.0})

	rec := doRequest(t, e, http.MethodPost, fmt.Sprintf("/api/goals/%v/plans", goal["id"]),
		echo.Map{"content": "buy shoes"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	plan := decodeObject(t, rec)
	assert.NotZero(t, plan["id"])
	assert.Equal(t, "buy shoes", plan["content"])
	assert.Equal(t, false, plan["completed"])
	assert.Equal(t, goal["id"], plan["goal_id"])
}

func TestCreatePlan_MissingContent(t *testing.T) {
	e := setupTest(t)
	cookie := signupAndLogin(t, e, "alice@example.com", "alice")
	goal := createGoal(t, e, cookie, echo.Map{"title": "Run", "target_value": 10.0})

	rec := doRequest(t, e, http.MethodPost, fmt.Sprintf("/api/goals/%v/plans", goal["id"]),
		echo.Map{}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePlan_GoalNotOwned(t *testing.T) {
	e := setupTest(t)
	alice := signupAndLogin(t, e, "alice@example.com", "alice")
	bob := signupAndLogin(t, e, "bob@example.com", "bob")
	goal := createGoal(t, e, alice, echo.Map{"title": "Run", "target_value": 10.0})

	rec := doRequest(t, e, http.MethodPost, fmt.Sprintf("/api/goals/%v/plans", goal["id"]),
		echo.Map{"content": "sneak in"}, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPlans_InsertionOrder(t *testing.T) {
	e := setupTest(t)
	cookie := signupAndLogin(t, e, "alice@example.com", "alice")
	goal := createGoal(t, e, cookie, echo.Map{"title": "Run", "target_value": 10.0})
	plansPath := fmt.Sprintf("/api/goals/%v/plans", goal["id"])

	for _, content := range []string{"first", "second", "third"} {
		rec := doRequest(t, e, http.MethodPost, plansPath, echo.Map{"content": content}, cookie)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(t, e, http.MethodGet, plansPath, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	plans := decodeList(t, rec)
	require.Len(t, plans, 3)
	assert.Equal(t, "first", plans[0]["content"])
	assert.Equal(t, "second", plans[1]["content"])
	assert.Equal(t, "third", plans[2]["content"])
}

func TestListPlans_GoalNotOwned(t *testing.T) {
	e := setupTest(t)
	alice := signupAndLogin(t, e, "alice@example.com", "alice")
	bob := signupAndLogin(t, e, "bob@example.com", "bob")
	goal := createGoal(t, e, alice, echo.Map{"title": "Run", "target_value": 10.0})

	rec := doRequest(t, e, http.MethodGet, fmt.Sprintf("/api/goals/%v/plans", goal["id"]), nil, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdatePlan_Partial(t *testing.T) {
	e := setupTest(t)
	cookie := signupAndLogin(t, e, "alice@example.com", "alice")
	goal := createGoal(t, e, cookie, echo.Map{"title": "Run", "target_value": 10.0})

	rec := doRequest(t, e, http.MethodPost, fmt.Sprintf("/api/goals/%v/plans", goal["id"]),
		echo.Map{"content": "buy shoes"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	plan := decodeObject(t, rec)
	planPath := fmt.Sprintf("/api/plans/%v", plan["id"])

	// Only completed changes, content stays
	rec = doRequest(t, e, http.MethodPut, planPath, echo.Map{"completed": true}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeObject(t, rec)
	assert.Equal(t, true, updated["completed"])
	assert.Equal(t, "buy shoes", updated["content"])

	// Only content changes, completed stays
	rec = doRequest(t, e, http.MethodPut, planPath, echo.Map{"content": "buy trail shoes"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	updated = decodeObject(t, rec)
	assert.Equal(t, true, updated["completed"])
	assert.Equal(t, "buy trail shoes", updated["content"])
}

// Transitive ownership: another user cannot touch a plan through its
// goal.
func TestPlan_OtherUserSeesNotFound(t *testing.T) {
	e := setupTest(t)
	alice := signupAndLogin(t, e, "alice@example.com", "alice")
	bob := signupAndLogin(t, e, "bob@example.com", "bob")
	goal := createGoal(t, e, alice, echo.Map{"title": "Run", "target_value": 10.0})

	rec := doRequest(t, e, http.MethodPost, fmt.Sprintf("/api/goals/%v/plans", goal["id"]),
		echo.Map{"content": "buy shoes"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	plan := decodeObject(t, rec)
	planPath := fmt.Sprintf("/api/plans/%v", plan["id"])

	rec = doRequest(t, e, http.MethodPut, planPath, echo.Map{"completed": true}, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, e, http.MethodDelete, planPath, nil, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeletePlan(t *testing.T) {
	e := setupTest(t)
	cookie := signupAndLogin(t, e, "alice@example.com", "alice")
	goal := createGoal(t, e, cookie, echo.Map{"title": "Run", "target_value": 10.0})

	rec := doRequest(t, e, http.MethodPost, fmt.Sprintf("/api/goals/%v/plans", goal["id"]),
		echo.Map{"content": "buy shoes"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	plan := decodeObject(t, rec)
	planPath := fmt.Sprintf("/api/plans/%v", plan["id"])

	rec = doRequest(t, e, http.MethodDelete, planPath, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, e, http.MethodPut, planPath, echo.Map{"completed": true}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, e, http.MethodGet, fmt.Sprintf("/api/goals/%v/plans", goal["id"]), nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeList(t, rec))
}
