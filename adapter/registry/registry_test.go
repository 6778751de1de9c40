package registry

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/restmongo/domain"
)

type first struct{}
type second struct{}

type RegistryTestSuite struct {
	suite.Suite
	r *Registry
}

func (s *RegistryTestSuite) SetupTest() {
	s.r = NewRegistry().(*Registry)
}

func meta(label string, t reflect.Type) *domain.ModelMeta {
	return &domain.ModelMeta{Label: label, Type: t}
}

func (s *RegistryTestSuite) TestRegisterAndGet() {
	a := meta("B", reflect.TypeFor[first]())
	b := meta("A", reflect.TypeFor[second]())
	s.NoError(s.r.Register(a))
	s.NoError(s.r.Register(b))
	s.Equal(2, s.r.Len())

	got, ok := s.r.Get("B")
	s.True(ok)
	s.Same(a, got)

	got, ok = s.r.GetByType(reflect.TypeFor[*second]())
	s.True(ok)
	s.Same(b, got)

	_, ok = s.r.Get("C")
	s.False(ok)
	_, ok = s.r.GetByType(reflect.TypeFor[int]())
	s.False(ok)
}

// Models are listed in label order.
func (s *RegistryTestSuite) TestAllOrdered() {
	s.NoError(s.r.Register(meta("B", reflect.TypeFor[first]())))
	s.NoError(s.r.Register(meta("A", reflect.TypeFor[second]())))

	var labels []string
	for m := range s.r.All() {
		labels = append(labels, m.Label)
	}
	s.Equal([]string{"A", "B"}, labels)
}

func (s *RegistryTestSuite) TestRegisterTwice() {
	a := meta("A", reflect.TypeFor[first]())
	s.NoError(s.r.Register(a))
	s.NoError(s.r.Register(a))
	s.Equal(1, s.r.Len())
}

func (s *RegistryTestSuite) TestLabelConflict() {
	s.NoError(s.r.Register(meta("A", reflect.TypeFor[first]())))
	err := s.r.Register(meta("A", reflect.TypeFor[second]()))
	s.ErrorAs(err, &domain.ErrModelRegistered{})

	_, ok := s.r.GetByType(reflect.TypeFor[second]())
	s.False(ok)
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}
