package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ModelsTestSuite struct {
	suite.Suite
}

func (s *ModelsTestSuite) TestRoleOrder() {
	assert.True(s.T(), RoleAdmin.AtLeast(RoleSupervisor))
	assert.True(s.T(), RoleAdmin.AtLeast(RoleOperator))
	assert.True(s.T(), RoleSupervisor.AtLeast(RoleOperator))
	assert.True(s.T(), RoleOperator.AtLeast(RoleOperator))
	assert.False(s.T(), RoleOperator.AtLeast(RoleSupervisor))
	assert.False(s.T(), RoleSupervisor.AtLeast(RoleAdmin))
	assert.False(s.T(), Role("ghost").AtLeast(RoleOperator))
}

func (s *ModelsTestSuite) TestRoleValid() {
	assert.True(s.T(), RoleAdmin.Valid())
	assert.True(s.T(), RoleSupervisor.Valid())
	assert.True(s.T(), RoleOperator.Valid())
	assert.False(s.T(), Role("root").Valid())
}

func (s *ModelsTestSuite) TestPriorityOrdinal() {
	assert.Equal(s.T(), 4, TaskPriorityUrgent.Ordinal())
	assert.Equal(s.T(), 3, TaskPriorityHigh.Ordinal())
	assert.Equal(s.T(), 2, TaskPriorityMedium.Ordinal())
	assert.Equal(s.T(), 1, TaskPriorityLow.Ordinal())
	assert.Equal(s.T(), 0, TaskPriority("asap").Ordinal())
}

func (s *ModelsTestSuite) TestEnumValidity() {
	assert.True(s.T(), TaskTypeElectrical.Valid())
	assert.True(s.T(), TaskTypeMechanical.Valid())
	assert.False(s.T(), TaskType("plumbing").Valid())

	assert.True(s.T(), TaskStatusPending.Valid())
	assert.True(s.T(), TaskStatusInProgress.Valid())
	assert.True(s.T(), TaskStatusCompleted.Valid())
	assert.True(s.T(), TaskStatusCancelled.Valid())
	assert.False(s.T(), TaskStatus("archived").Valid())
}

func TestModelsTestSuite(t *testing.T) {
	suite.Run(t, new(ModelsTestSuite))
}
