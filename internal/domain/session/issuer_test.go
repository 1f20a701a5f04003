package session_test

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/codeduel/arena/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIssuer(t *testing.T) {
	Convey("Given a join code issuer", t, func() {
		Convey("When issuing many codes", func() {
			issuer := session.NewIssuer()
			pattern := regexp.MustCompile(`^[1-9][0-9]{5}$`)

			Convey("Then every code should be a 6-digit string", func() {
				for i := 0; i < 1000; i++ {
					code := issuer.Issue()
					So(code, ShouldHaveLength, 6)
					So(pattern.MatchString(code), ShouldBeTrue)
				}
			})
		})

		Convey("When two issuers share a seed", func() {
			a := session.NewIssuer(session.WithRand(rand.NewSource(42)))
			b := session.NewIssuer(session.WithRand(rand.NewSource(42)))

			Convey("Then they should issue the same sequence", func() {
				for i := 0; i < 20; i++ {
					So(a.Issue(), ShouldEqual, b.Issue())
				}
			})
		})

		Convey("When issuing from a fixed seed", func() {
			issuer := session.NewIssuer(session.WithRand(rand.NewSource(1)))
			seen := make(map[string]int)

			Convey("Then draws should not collapse to a single value", func() {
				for i := 0; i < 100; i++ {
					seen[issuer.Issue()]++
				}
				So(len(seen), ShouldBeGreaterThan, 90)
			})
		})
	})
}
