package focus

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorder) OnFocusChange(c Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) got() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Change(nil), r.changes...)
}

func TestManager(t *testing.T) {
	Convey("Given a focus manager", t, func() {
		m := NewManager()
		a, b := &recorder{}, &recorder{}

		Convey("The first request is granted silently", func() {
			So(m.Request(a, Gain), ShouldEqual, RequestGranted)
			So(m.Holder(), ShouldEqual, a)
			So(a.got(), ShouldBeEmpty)
		})

		Convey("A second requester displaces the first", func() {
			m.Request(a, Gain)
			So(m.Request(b, Gain), ShouldEqual, RequestGranted)
			So(m.Holder(), ShouldEqual, b)
			So(a.got(), ShouldResemble, []Change{Loss})

			Convey("And abandoning hands focus back", func() {
				So(m.Abandon(b), ShouldEqual, RequestGranted)
				So(m.Holder(), ShouldEqual, a)
				So(a.got(), ShouldResemble, []Change{Loss, Gain})
			})
		})

		Convey("Transient requests produce transient losses", func() {
			m.Request(a, Gain)
			m.Request(b, GainTransientMayDuck)
			So(a.got(), ShouldResemble, []Change{LossTransientCanDuck})
		})

		Convey("Re-requesting while on top does not notify", func() {
			m.Request(a, Gain)
			m.Request(a, Gain)
			So(a.got(), ShouldBeEmpty)
		})

		Convey("Abandon is idempotent", func() {
			m.Request(a, Gain)
			So(m.Abandon(a), ShouldEqual, RequestGranted)
			So(m.Abandon(a), ShouldEqual, RequestGranted)
			So(m.Holder(), ShouldBeNil)
		})

		Convey("Invalid requests fail", func() {
			So(m.Request(nil, Gain), ShouldEqual, RequestFailed)
			So(m.Request(a, Loss), ShouldEqual, RequestFailed)
		})
	})
}
