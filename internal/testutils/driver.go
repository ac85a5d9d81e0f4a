package testutils

import (
	"fmt"
	"math/rand"

	"github.com/l7mp/rcollections/pkg/collection"
)

// MaxValue bounds the item values generated by drivers. Small values make predicates flip and
// keys collide often.
const MaxValue = 10

// Driver applies random mutations to base collections.
type Driver struct {
	Rand    *rand.Rand
	Factory *Factory
}

// NewDriver creates a driver with the given seed.
func NewDriver(seed int64) *Driver {
	return &Driver{Rand: rand.New(rand.NewSource(seed)), Factory: NewFactory(seed + 1)}
}

func (d *Driver) value() int { return d.Rand.Intn(MaxValue) }

func (d *Driver) pick(items []*Item) *Item { return items[d.Rand.Intn(len(items))] }

// MutateCollection applies one random mutation to c and returns its description. Transactions
// bundle several mutations.
func (d *Driver) MutateCollection(c *collection.MutableCollection[*Item]) string {
	if d.Rand.Intn(15) == 0 {
		tx, err := c.Transaction()
		if err != nil {
			panic(err)
		}
		defer tx.Close()
		n := 1 + d.Rand.Intn(4)
		ops := ""
		for i := 0; i < n; i++ {
			ops += d.mutateCollection(c) + ";"
		}
		return "transaction(" + ops + ")"
	}
	return d.mutateCollection(c)
}

func (d *Driver) mutateCollection(c *collection.MutableCollection[*Item]) string {
	items := c.Items()
	op := d.Rand.Intn(20)
	switch {
	case len(items) == 0 || op < 6:
		item := d.Factory.New(d.value())
		c.Add(item)
		return fmt.Sprintf("add %s", item)
	case op < 9:
		item := d.pick(items)
		c.Remove(item)
		return fmt.Sprintf("remove %s", item)
	case op < 11:
		item, repl := d.pick(items), d.Factory.New(d.value())
		c.Replace(item, repl)
		return fmt.Sprintf("replace %s with %s", item, repl)
	case op < 12:
		// a duplicate reference
		item := d.pick(items)
		c.Add(item)
		return fmt.Sprintf("add duplicate %s", item)
	case op < 18:
		item := d.pick(items)
		old := item.String()
		item.Set(d.value())
		return fmt.Sprintf("set %s to %d", old, item.Get())
	case op < 19:
		fresh := d.Factory.Items(d.value(), d.value(), d.value())
		c.Reset(append(fresh, d.pick(items)))
		return "reset"
	default:
		c.Clear()
		return "clear"
	}
}

// MutateList applies one random mutation to l and returns its description.
func (d *Driver) MutateList(l *collection.MutableList[*Item]) string {
	if d.Rand.Intn(15) == 0 {
		tx, err := l.Transaction()
		if err != nil {
			panic(err)
		}
		defer tx.Close()
		n := 1 + d.Rand.Intn(4)
		ops := ""
		for i := 0; i < n; i++ {
			ops += d.mutateList(l) + ";"
		}
		return "transaction(" + ops + ")"
	}
	return d.mutateList(l)
}

func (d *Driver) mutateList(l *collection.MutableList[*Item]) string {
	n := l.Count()
	op := d.Rand.Intn(20)
	var err error
	var desc string
	switch {
	case n == 0 || op < 6:
		item, i := d.Factory.New(d.value()), d.Rand.Intn(n+1)
		err = l.Insert(i, item)
		desc = fmt.Sprintf("insert %s at %d", item, i)
	case op < 9:
		i := d.Rand.Intn(n)
		err = l.RemoveAt(i)
		desc = fmt.Sprintf("removeAt %d", i)
	case op < 11:
		i, item := d.Rand.Intn(n), d.Factory.New(d.value())
		err = l.Set(i, item)
		desc = fmt.Sprintf("set %d to %s", i, item)
	case op < 14:
		from, to := d.Rand.Intn(n), d.Rand.Intn(n)
		err = l.Move(from, to)
		desc = fmt.Sprintf("move %d to %d", from, to)
	case op < 18:
		item := l.At(d.Rand.Intn(n))
		old := item.String()
		item.Set(d.value())
		desc = fmt.Sprintf("change %s to %d", old, item.Get())
	case op < 19:
		l.Reset(d.Factory.Items(d.value(), d.value(), d.value(), d.value()))
		desc = "reset"
	default:
		l.Clear()
		desc = "clear"
	}
	if err != nil {
		panic(err)
	}
	return desc
}

// MutateInts applies one random structural mutation to a list of plain integers.
func (d *Driver) MutateInts(l *collection.MutableList[int]) string {
	n := l.Count()
	op := d.Rand.Intn(12)
	var err error
	var desc string
	switch {
	case n == 0 || op < 4:
		v, i := d.value(), d.Rand.Intn(n+1)
		err = l.Insert(i, v)
		desc = fmt.Sprintf("insert %d at %d", v, i)
	case op < 7:
		i := d.Rand.Intn(n)
		err = l.RemoveAt(i)
		desc = fmt.Sprintf("removeAt %d", i)
	case op < 8:
		i, v := d.Rand.Intn(n), d.value()
		err = l.Set(i, v)
		desc = fmt.Sprintf("set %d to %d", i, v)
	case op < 11:
		from, to := d.Rand.Intn(n), d.Rand.Intn(n)
		err = l.Move(from, to)
		desc = fmt.Sprintf("move %d to %d", from, to)
	default:
		vs := make([]int, d.Rand.Intn(12))
		for i := range vs {
			vs[i] = d.value()
		}
		l.Reset(vs)
		desc = fmt.Sprintf("reset %v", vs)
	}
	if err != nil {
		panic(err)
	}
	return desc
}
