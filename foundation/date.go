package foundation

import (
	"time"

	"github.com/chazu/objective/object"
	"gitlab.com/variadico/lctime"
)

// DefaultDateFormat is the strftime layout used by Date descriptions.
const DefaultDateFormat = "%Y-%m-%d %H:%M:%S %Z"

// DateClass describes immutable points in time with microsecond precision.
var DateClass = &object.Class{
	Name:       "Date",
	Superclass: object.ObjectClass,
	InstVars:   []string{"time"},
	Interface: []string{
		"compareTo",
		"format",
		"initWithTime",
		"timeSinceDate",
	},
}

var dateTime = DateClass.InstVarIndex("time")

func init() {
	DateClass.Initialize = initializeDate
}

func initializeDate(c *object.Class) {
	c.Override("init", dateInit)
	c.Override("copy", dateCopy)
	c.Override("description", dateDescription)
	c.Override("hash", dateHash)
	c.Override("isEqual", dateIsEqual)

	c.Define("compareTo", dateCompareTo)
	c.Define("format", dateFormat)
	c.Define("initWithTime", dateInitWithTime)
	c.Define("timeSinceDate", dateTimeSinceDate)
}

func timeOf(o *object.Object) time.Time {
	return object.Get[time.Time](o, dateTime)
}

// dateInit takes an optional time. Without one the date is now.
func dateInit(self *object.Object, args ...any) any {
	a := object.ArgsOf(args)
	if _, err := object.SuperInit(object.ObjectClass, self, a); err != nil {
		return err
	}
	t := object.Arg(a, time.Now())
	self.SetSlot(dateTime, t.Truncate(time.Microsecond))
	return self
}

func dateInitWithTime(self *object.Object, args ...any) any {
	t := argAt[time.Time](DateClass, "initWithTime", args, 0)
	return object.Invoke(self, object.SelInit, object.NewArgs(t))
}

func dateCopy(self *object.Object, args ...any) any {
	obj, err := object.New(DateClass, timeOf(self))
	if err != nil {
		return err
	}
	return obj
}

func dateDescription(self *object.Object, args ...any) any {
	return lctime.Strftime(DefaultDateFormat, timeOf(self))
}

func dateHash(self *object.Object, args ...any) any {
	return int(timeOf(self).UnixMicro())
}

func dateIsEqual(self *object.Object, args ...any) any {
	if object.Super(object.ObjectClass, self, "isEqual", args...).(bool) {
		return true
	}
	other, _ := object.SlotArg(DateClass, "isEqual", args, 0).(*object.Object)
	if !object.IsKind(other, DateClass) {
		return false
	}
	return timeOf(self).Equal(timeOf(other))
}

func dateCompareTo(self *object.Object, args ...any) any {
	other := objectArg(DateClass, "compareTo", args, 0)
	return orderOf(timeOf(self).Compare(timeOf(other)))
}

func dateFormat(self *object.Object, args ...any) any {
	return lctime.Strftime(argAt[string](DateClass, "format", args, 0), timeOf(self))
}

func dateTimeSinceDate(self *object.Object, args ...any) any {
	other := objectArg(DateClass, "timeSinceDate", args, 0)
	return timeOf(self).Sub(timeOf(other))
}

// ---------------------------------------------------------------------------
// Date view
// ---------------------------------------------------------------------------

// Date is a typed view of a DateClass instance.
type Date struct {
	*object.Object
}

// AsDate casts o to a Date view.
func AsDate(o *object.Object) (Date, error) {
	return object.CastAs(o, DateClass, func(o *object.Object) Date { return Date{o} })
}

// NewDate creates a Date for t, truncated to the microsecond.
func NewDate(t time.Time) (Date, error) {
	obj, err := object.NewWith(DateClass, "initWithTime", t)
	if err != nil {
		return Date{}, err
	}
	return Date{obj}, nil
}

// Now creates a Date for the current time.
func Now() (Date, error) {
	obj, err := object.New(DateClass)
	if err != nil {
		return Date{}, err
	}
	return Date{obj}, nil
}

// DateWithTimeSinceNow creates a Date offset from the current time by d.
func DateWithTimeSinceNow(d time.Duration) (Date, error) {
	return NewDate(time.Now().Add(d))
}

// Time returns the date as a time.Time.
func (d Date) Time() time.Time {
	return timeOf(d.Object)
}

func (d Date) CompareTo(other Date) Order {
	return object.Send(d.Object, "compareTo", other.Object).(Order)
}

// Format renders the date with a strftime layout.
func (d Date) Format(layout string) string {
	return object.Send(d.Object, "format", layout).(string)
}

// TimeSinceDate returns d minus other.
func (d Date) TimeSinceDate(other Date) time.Duration {
	return object.Send(d.Object, "timeSinceDate", other.Object).(time.Duration)
}
