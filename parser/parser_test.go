package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-db/strata/parser"
	"github.com/strata-db/strata/schema"
)

const sampleDoc = `
types:
  - name: post_status
    kind: enum
    values: [draft, published]

tables:
  - name: users
    comment: Application users
    rls: true
    fields:
      - name: id
        type: uuid
        primary_key: true
        default: gen_random_uuid()
      - name: email
        type: string
        nullable: false
        unique: true
      - name: age
        type: integer
        default: 18
    indexes:
      - fields: [email]
        unique: true
    policies:
      - action: select
        description: Users read their own row
        condition: auth.uid() = id
        for: authenticated
    triggers:
      - name: touch
        events: [insert, update]
        body: NEW.updated_at = now();
        timing: after
  - name: posts
    fields:
      - name: id
        type: bigint
        primary_key: true
      - name: author_id
        type: uuid
        references: users(id)
        on_delete: cascade
    relationships:
      - kind: belongs_to
        table: users

functions:
  - name: noop
    returns: boolean
    body: BEGIN RETURN true; END;

views:
  - name: emails
    query: SELECT email FROM users

buckets:
  - name: avatars
    public: true
    file_size_limit: 5MB
    allowed_mime_types: [image/png]
    policies:
      - action: select
        description: Public read
        condition: "true"
        for: [anon, authenticated]
`

func TestParse(t *testing.T) {
	s, err := parser.Parse([]byte(sampleDoc))
	require.NoError(t, err)

	require.Len(t, s.Tables, 2)
	require.Len(t, s.Types, 1)
	require.Len(t, s.Functions, 1)
	require.Len(t, s.Views, 1)
	require.Len(t, s.Buckets, 1)

	users := s.Tables[0]
	assert.Equal(t, "users", users.Name)
	assert.True(t, users.EnableRLS)
	assert.Equal(t, "Application users", users.Comment)

	require.Len(t, users.Fields, 3)
	id := users.Fields[0]
	assert.True(t, id.PrimaryKey)
	assert.Equal(t, "gen_random_uuid()", id.Default)
	assert.False(t, id.NotNull, "nullable defaults to true")

	email := users.Fields[1]
	assert.True(t, email.NotNull, "nullable: false becomes NOT NULL")
	assert.True(t, email.Unique)

	age := users.Fields[2]
	assert.Equal(t, float64(18), age.Default)

	require.Len(t, users.Policies, 1)
	assert.Equal(t, schema.PolicySelect, users.Policies[0].Action)
	assert.Equal(t, []string{"authenticated"}, users.Policies[0].For, "bare role string normalizes to a list")

	require.Len(t, users.Triggers, 1)
	assert.Equal(t, schema.TimingAfter, users.Triggers[0].Timing)

	posts := s.Tables[1]
	assert.Equal(t, "users(id)", posts.Fields[1].References)
	assert.Equal(t, schema.ActionCascade, posts.Fields[1].OnDelete)
	require.Len(t, posts.Relationships, 1)
	assert.Equal(t, schema.BelongsTo, posts.Relationships[0].Kind)

	bucket := s.Buckets[0]
	assert.Equal(t, "5MB", bucket.FileSizeLimit)
	assert.Equal(t, []string{"anon", "authenticated"}, bucket.Policies[0].For)

	require.NoError(t, schema.Validate(s))
}

func TestParse_DeclarationOrderPreserved(t *testing.T) {
	s, err := parser.Parse([]byte(sampleDoc))
	require.NoError(t, err)

	var names []string
	for _, f := range s.Tables[0].Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "email", "age"}, names)
}

func TestParse_NumericFileSizeLimit(t *testing.T) {
	s, err := parser.Parse([]byte(`
buckets:
  - name: docs
    file_size_limit: 1048576
`))
	require.NoError(t, err)
	assert.Equal(t, float64(1048576), s.Buckets[0].FileSizeLimit)
}

func TestParse_NullabilityOption(t *testing.T) {
	// The option must parse unquoted; a bare "null" key would decode as
	// the YAML null scalar and fail the YAML-to-JSON conversion.
	s, err := parser.Parse([]byte(`
tables:
  - name: users
    fields:
      - name: email
        type: string
        nullable: false
      - name: bio
        type: text
        nullable: true
      - name: age
        type: int
`))
	require.NoError(t, err)

	fields := s.Tables[0].Fields
	assert.True(t, fields[0].NotNull, "nullable: false becomes NOT NULL")
	assert.False(t, fields[1].NotNull, "nullable: true stays nullable")
	assert.False(t, fields[2].NotNull, "omitted nullable defaults to true")
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := parser.Parse([]byte(`
tables:
  - name: users
    colour: blue
`))
	require.Error(t, err, "unknown document keys are rejected")
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := parser.Parse([]byte("tables: [unclosed"))
	require.Error(t, err)
}
