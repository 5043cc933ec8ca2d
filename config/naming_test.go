package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamingConventionToStoreColumn(t *testing.T) {
	nc := NewDefaultNaming()
	assert.Equal(t, "athlete", nc.ToStoreColumn("athlete"))
	assert.Equal(t, "id", nc.ToStoreColumn("_id"))
	assert.Equal(t, "creation_time", nc.ToStoreColumn("_creationTime"))
	assert.Equal(t, "gold", nc.ToStoreColumn("gold"))
}

func TestNamingConventionToField(t *testing.T) {
	nc := NewDefaultNaming()
	assert.Equal(t, "athlete", nc.ToField("athlete"))
	assert.Equal(t, "_id", nc.ToField("id"))
	assert.Equal(t, "_creationTime", nc.ToField("creation_time"))
}

func TestNamingConventionToGraphQLType(t *testing.T) {
	nc := NewDefaultNaming()
	assert.Equal(t, "OlympicWinner", nc.ToGraphQLType("olympic_winner"))
	assert.Equal(t, "OlympicWinnerInput", nc.ToGraphQLType("olympicWinnerInput"))
}
