package sym

import "choco32/internal/label"

// ClassInfo describes one class's layout: its attribute and method lists
// (each beginning with a copy of the superclass's list in the same order,
// so indexes are stable across subclasses), its prototype and
// dispatch-table labels.
type ClassInfo struct {
	Name          string
	TypeTag       int // Non-negative and unique, except the internal .list pseudo-class (-1).
	Super         *ClassInfo // nil only for "object".
	Attrs         []*AttrInfo
	Methods       []*FuncInfo
	Prototype     label.Label
	DispatchTable label.Label // Zero Label suppresses dispatch-table emission (the .list pseudo-class).

	attrIndex   map[string]int
	methodIndex map[string]int
}

func (*ClassInfo) infoMarker() {}

// NewClass creates a ClassInfo inheriting attrs/methods/indexes from super
// (nil for "object" itself).
func NewClass(name string, typeTag int, super *ClassInfo) *ClassInfo {
	c := &ClassInfo{
		Name:        name,
		TypeTag:     typeTag,
		Super:       super,
		attrIndex:   make(map[string]int),
		methodIndex: make(map[string]int),
	}
	if super != nil {
		c.Attrs = append(c.Attrs, super.Attrs...)
		for k, v := range super.attrIndex {
			c.attrIndex[k] = v
		}
		c.Methods = append(c.Methods, super.Methods...)
		for k, v := range super.methodIndex {
			c.methodIndex[k] = v
		}
	}
	return c
}

// AddAttr appends a to the attribute list, or — if a class ancestor
// already declared an attribute of the same name — overrides that
// inherited slot in place, preserving its index.
func (c *ClassInfo) AddAttr(a *AttrInfo) {
	if idx, ok := c.attrIndex[a.Name]; ok {
		c.Attrs[idx] = a
		return
	}
	c.attrIndex[a.Name] = len(c.Attrs)
	c.Attrs = append(c.Attrs, a)
}

// AddMethod appends f to the method list, or overrides an inherited slot
// of the same name in place, preserving its index. This is what makes
// static dispatch-table indexing sound under overriding.
func (c *ClassInfo) AddMethod(f *FuncInfo) {
	name := f.BaseName()
	if idx, ok := c.methodIndex[name]; ok {
		c.Methods[idx] = f
		return
	}
	c.methodIndex[name] = len(c.Methods)
	c.Methods = append(c.Methods, f)
}

// AttrIndex returns the attribute index of name, following inheritance.
func (c *ClassInfo) AttrIndex(name string) (int, bool) {
	idx, ok := c.attrIndex[name]
	return idx, ok
}

// MethodIndex returns the dispatch-table slot of name, following
// inheritance; for every class C and method m inherited from ancestor A,
// MethodIndex(m) is the same index in both C and A.
func (c *ClassInfo) MethodIndex(name string) (int, bool) {
	idx, ok := c.methodIndex[name]
	return idx, ok
}

// HeaderSize is the fixed three-word object header (typeTag, objectSize,
// dispatchTablePointer) every live object carries.
const HeaderSize = 3

// ObjectSize is the prototype's objectSize field: header plus one word per
// attribute.
func (c *ClassInfo) ObjectSize() int {
	return HeaderSize + len(c.Attrs)
}

// AttrOffset returns the word offset of attribute name from the start of an
// instance, i.e. HeaderSize + index — the value every "lw ...(obj)" site
// for this attribute must agree on.
func (c *ClassInfo) AttrOffset(name string) (int, bool) {
	idx, ok := c.AttrIndex(name)
	if !ok {
		return 0, false
	}
	return HeaderSize + idx, true
}
