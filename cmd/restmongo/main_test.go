package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
	"github.com/vinicius-lino-figueiredo/restmongo/internal/config"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommandTestSuite struct {
	suite.Suite
}

func (s *CommandTestSuite) SetupTest() {
	s.T().Chdir(s.T().TempDir())
}

func (s *CommandTestSuite) run(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func (s *CommandTestSuite) TestObjectIDNew() {
	out, err := s.run("objectid", "new", "-n", "3")
	s.NoError(err)
	lines := strings.Fields(out)
	s.Len(lines, 3)
	for _, line := range lines {
		s.True(primitive.IsValidObjectID(line), line)
	}
	s.NotEqual(lines[0], lines[1])
}

func (s *CommandTestSuite) TestObjectIDCheck() {
	out, err := s.run("objectid", "check", "65f1a2b3c4d5e6f708091a2b")
	s.NoError(err)
	s.Equal("65f1a2b3c4d5e6f708091a2b 2024-03-13T12:57:23Z\n", out)

	_, err = s.run("objectid", "check", "zzz")
	s.ErrorIs(err, domain.ErrValidation)
	s.EqualError(err, `"zzz" is not a valid ObjectId.`)

	_, err = s.run("objectid", "check")
	s.Error(err)
}

func (s *CommandTestSuite) TestInspect() {
	out, err := s.run("inspect")
	s.NoError(err)
	s.Contains(strings.Fields(out), "GenericModel")
	s.Contains(strings.Fields(out), "EmbedModel")

	out, err = s.run("--verbose", "inspect", "RelationContainerModel")
	s.NoError(err)
	var view modelView
	s.Require().NoError(json.Unmarshal([]byte(out), &view))
	s.Equal("_id", view.PK)
	s.Equal("ObjectIdField", view.Fields["_id"].Kind)
	s.Equal(relationView{Model: "GenericModel", ToField: "id"}, view.Forward["fk_field"])
	s.True(view.Forward["mfk_field"].ToMany)

	_, err = s.run("inspect", "Missing")
	s.ErrorAs(err, &domain.ErrUnknownModel{})
}

func (s *CommandTestSuite) TestConfigErrors() {
	s.T().Setenv("RESTMONGO_STORE_DRIVER", "postgres")
	_, err := s.run("objectid", "new")
	s.Error(err)
}

func (s *CommandTestSuite) TestHandler() {
	a := &app{v: config.New()}
	s.Require().NoError(a.load())

	handler, closeStore, err := a.handler(context.Background())
	s.Require().NoError(err)
	defer closeStore()

	srv := httptest.NewServer(handler)
	defer srv.Close()

	res, err := http.Post(srv.URL+"/obj_id_model", "application/json", strings.NewReader(`{"int_field": 1, "char_field": "a"}`))
	s.Require().NoError(err)
	res.Body.Close()
	s.Equal(http.StatusCreated, res.StatusCode)

	res, err = http.Get(srv.URL + "/obj_id_model")
	s.Require().NoError(err)
	defer res.Body.Close()
	var list []map[string]any
	s.NoError(json.NewDecoder(res.Body).Decode(&list))
	s.Len(list, 1)
}

func (s *CommandTestSuite) TestRedisStore() {
	mr := miniredis.RunT(s.T())
	s.T().Setenv("RESTMONGO_STORE_DRIVER", "redis")
	s.T().Setenv("RESTMONGO_STORE_REDIS_ADDR", mr.Addr())

	a := &app{v: config.New()}
	s.Require().NoError(a.load())
	_, closeStore, err := a.handler(context.Background())
	s.Require().NoError(err)
	closeStore()

	mr.Close()
	_, _, err = a.handler(context.Background())
	s.Error(err)
}

func TestCommandTestSuite(t *testing.T) {
	suite.Run(t, new(CommandTestSuite))
}
