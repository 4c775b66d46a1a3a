package metadata

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// The loader builds a Store from a YAML type document. A document is a flat
// list of type declarations; order in the list is declaration order within
// each namespace.
//
//	types:
//	  - namespace: Windows.Foundation
//	    name: IClosable
//	    category: interface
//	    guid: [0x30d5a829, 0x7fa4, 0x4026, 0x83, 0xbb, 0xd7, 0x5b, 0xae, 0x4e, 0xa9, 0x9e]
//	    methods:
//	      - name: Close
//
// Type positions accept a primitive name ("i32", "string"), a dotted
// reference ("Windows.Foundation.IClosable"), a formal generic parameter of
// the enclosing type ("T"), or an instantiation mapping
// ({of: Windows.Foundation.Collections.IVector, args: [T]}).
//
// Common attributes have sugar forms: impl entries take default and
// overridable flags, types take guid, exclusiveto, statics and activatable
// keys, methods take an overload key. The loader rewrites the sugar into the
// marker attributes the engine reads, so a document using sugar and one
// spelling the attributes out produce identical stores.

type document struct {
	Types []typeDoc `yaml:"types"`
}

type typeDoc struct {
	Namespace string   `yaml:"namespace"`
	Name      string   `yaml:"name"`
	Category  string   `yaml:"category"`
	Generics  []string `yaml:"generics"`
	Extends   string   `yaml:"extends"`

	Impls   []implDoc   `yaml:"impls"`
	Fields  []fieldDoc  `yaml:"fields"`
	Repr    string      `yaml:"repr"`
	Members []memberDoc `yaml:"members"`
	Methods []methodDoc `yaml:"methods"`

	Guid        []uint32  `yaml:"guid"`
	ExclusiveTo string    `yaml:"exclusiveto"`
	Statics     []string  `yaml:"statics"`
	Activatable []string  `yaml:"activatable"`
	Attrs       []attrDoc `yaml:"attrs"`
}

type implDoc struct {
	Target      sigDoc
	Default     bool
	Overridable bool
}

func (d *implDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode && hasKey(node, "target") {
		var full struct {
			Target      sigDoc `yaml:"target"`
			Default     bool   `yaml:"default"`
			Overridable bool   `yaml:"overridable"`
		}
		if err := node.Decode(&full); err != nil {
			return err
		}
		d.Target = full.Target
		d.Default = full.Default
		d.Overridable = full.Overridable
		return nil
	}
	return node.Decode(&d.Target)
}

type fieldDoc struct {
	Name string `yaml:"name"`
	Type sigDoc `yaml:"type"`
}

type memberDoc struct {
	Name  string `yaml:"name"`
	Value int64  `yaml:"value"`
}

type methodDoc struct {
	Name     string     `yaml:"name"`
	Category string     `yaml:"category"`
	Overload string     `yaml:"overload"`
	Params   []paramDoc `yaml:"params"`
	Returns  *paramDoc  `yaml:"returns"`
}

type paramDoc struct {
	Name  string `yaml:"name"`
	Type  sigDoc `yaml:"type"`
	Out   bool   `yaml:"out"`
	Array bool   `yaml:"array"`
	ByRef bool   `yaml:"byref"`
}

func (p *paramDoc) UnmarshalYAML(node *yaml.Node) error {
	// A bare type is shorthand for an unflagged parameter, so
	// "returns: i32" works. The full form is recognized by its type key.
	if node.Kind == yaml.MappingNode && hasKey(node, "type") {
		type plain paramDoc
		return node.Decode((*plain)(p))
	}
	return node.Decode(&p.Type)
}

// sigDoc captures a type position before resolution. Resolution against the
// store and the enclosing generics happens in the second pass.
type sigDoc struct {
	scalar string
	of     string
	args   []sigDoc
	line   int
}

func (s *sigDoc) UnmarshalYAML(node *yaml.Node) error {
	s.line = node.Line
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&s.scalar)
	case yaml.MappingNode:
		var inst struct {
			Of   string   `yaml:"of"`
			Args []sigDoc `yaml:"args"`
		}
		if err := node.Decode(&inst); err != nil {
			return err
		}
		if inst.Of == "" {
			return errors.Newf("line %d: instantiation needs an of target", node.Line)
		}
		if len(inst.Args) == 0 {
			return errors.Newf("line %d: instantiation of %s needs args", node.Line, inst.Of)
		}
		s.of = inst.Of
		s.args = inst.Args
		return nil
	default:
		return errors.Newf("line %d: type must be a name or an instantiation mapping", node.Line)
	}
}

type attrDoc struct {
	Namespace string       `yaml:"namespace"`
	Name      string       `yaml:"name"`
	Args      []attrArgDoc `yaml:"args"`
}

type attrArgDoc struct {
	arg      AttrArg
	typeName string
	line     int
}

func (a *attrArgDoc) UnmarshalYAML(node *yaml.Node) error {
	a.line = node.Line
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return errors.Newf("line %d: attribute argument must be a single-key mapping", node.Line)
	}
	key, val := node.Content[0].Value, node.Content[1]
	switch key {
	case "u8", "u16", "u32":
		var n uint32
		if err := val.Decode(&n); err != nil {
			return err
		}
		kind := ArgU32
		limit := uint32(1<<32 - 1)
		switch key {
		case "u8":
			kind, limit = ArgU8, 1<<8-1
		case "u16":
			kind, limit = ArgU16, 1<<16-1
		}
		if n > limit {
			return errors.Newf("line %d: value %#x overflows %s", node.Line, n, key)
		}
		a.arg = AttrArg{Kind: kind, Num: n}
	case "str":
		var s string
		if err := val.Decode(&s); err != nil {
			return err
		}
		a.arg = AttrArg{Kind: ArgString, Str: s}
	case "type":
		if err := val.Decode(&a.typeName); err != nil {
			return err
		}
		a.arg = AttrArg{Kind: ArgType}
	default:
		return errors.Newf("line %d: unknown attribute argument kind %q", node.Line, key)
	}
	return nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

// Parse builds a Store from document bytes.
func Parse(data []byte) (*Store, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "metadata: parsing document")
	}
	return buildStore(doc)
}

// LoadFile builds a Store from the document at path.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "metadata: reading document")
	}
	store, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return store, nil
}

func buildStore(doc document) (*Store, error) {
	store := NewStore()

	// First pass registers every name so bodies can reference forward.
	ids := make([]TypeID, len(doc.Types))
	for i, td := range doc.Types {
		cat, err := categoryByName(td.Category)
		if err != nil {
			return nil, errors.Wrapf(err, "metadata: type %s.%s", td.Namespace, td.Name)
		}
		if td.Namespace == "" || td.Name == "" {
			return nil, errors.Newf("metadata: type %d needs namespace and name", i)
		}
		name, err := genericName(td.Name, len(td.Generics))
		if err != nil {
			return nil, errors.Wrapf(err, "metadata: type %s.%s", td.Namespace, td.Name)
		}
		id, err := store.Add(TypeDef{
			Namespace: td.Namespace,
			Name:      name,
			Category:  cat,
			Generics:  td.Generics,
		})
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}

	// System.Guid is always resolvable, declared or not.
	if _, ok := store.Lookup(SystemNamespace + "." + GuidTypeName); !ok {
		store.MustAdd(TypeDef{
			Namespace: SystemNamespace,
			Name:      GuidTypeName,
			Category:  CategoryStruct,
		})
	}

	l := loader{store: store}
	if err := l.resolveBases(ids, doc.Types); err != nil {
		return nil, err
	}
	for i, td := range doc.Types {
		if err := l.fill(ids[i], td); err != nil {
			return nil, errors.Wrapf(err, "metadata: type %s.%s", td.Namespace, td.Name)
		}
	}
	return store, nil
}

// resolveBases turns extends declarations into full base chains, nearest
// base first.
func (l loader) resolveBases(ids []TypeID, docs []typeDoc) error {
	parent := make(map[TypeID]TypeID, len(docs))
	for i, td := range docs {
		if td.Extends == "" {
			continue
		}
		bid, err := l.lookupName(td.Extends)
		if err != nil {
			return errors.Wrapf(err, "metadata: type %s.%s", td.Namespace, td.Name)
		}
		if l.store.Type(ids[i]).Category != CategoryClass || l.store.Type(bid).Category != CategoryClass {
			return errors.Newf("metadata: type %s.%s: extends is only valid between classes", td.Namespace, td.Name)
		}
		parent[ids[i]] = bid
	}
	for i := range docs {
		id := ids[i]
		t := l.store.Type(id)
		for b, ok := parent[id]; ok; b, ok = parent[b] {
			if len(t.Bases) > len(parent) {
				return errors.Newf("metadata: type %s inherits from itself", t.QualifiedName())
			}
			t.Bases = append(t.Bases, b)
		}
	}
	return nil
}

type loader struct {
	store *Store
}

// fill resolves one type body. All ids exist by now, so taking the record
// pointer is safe.
func (l loader) fill(id TypeID, td typeDoc) error {
	t := l.store.Type(id)

	for _, im := range td.Impls {
		target, err := l.resolveSig(im.Target, t.Generics)
		if err != nil {
			return err
		}
		if target.Kind != SigType && target.Kind != SigGeneric {
			return errors.Newf("line %d: required interface must reference a type", im.Target.line)
		}
		impl := InterfaceImpl{Target: target}
		if im.Default {
			impl.Attrs = append(impl.Attrs, marker(AttrDefault))
		}
		if im.Overridable {
			impl.Attrs = append(impl.Attrs, marker(AttrOverridable))
		}
		t.Impls = append(t.Impls, impl)
	}

	if t.Category == CategoryEnum {
		if len(td.Fields) > 0 {
			return errors.New("enums take members, not fields")
		}
		if err := l.fillEnum(t, td); err != nil {
			return err
		}
	} else {
		if len(td.Members) > 0 || td.Repr != "" {
			return errors.New("members and repr are only valid on enums")
		}
		for _, fd := range td.Fields {
			sig, err := l.resolveSig(fd.Type, t.Generics)
			if err != nil {
				return err
			}
			t.Fields = append(t.Fields, Field{Name: fd.Name, Sig: sig})
		}
	}

	for _, md := range td.Methods {
		m, err := l.resolveMethod(md, t.Generics)
		if err != nil {
			return errors.Wrapf(err, "method %s", md.Name)
		}
		t.Methods = append(t.Methods, m)
	}

	return l.fillAttrs(t, td)
}

func (l loader) fillEnum(t *TypeDef, td typeDoc) error {
	repr := td.Repr
	if repr == "" {
		repr = "i32"
	}
	if repr != "i32" && repr != "u32" {
		return errors.Newf("enum repr must be i32 or u32, got %q", repr)
	}
	elem, _ := ElementByName(repr)
	t.Fields = append(t.Fields, Field{Name: "value__", Sig: ElemSig(elem)})
	for _, m := range td.Members {
		v := m.Value
		t.Fields = append(t.Fields, Field{Name: m.Name, Sig: ElemSig(elem), Constant: &v})
	}
	return nil
}

func (l loader) resolveMethod(md methodDoc, generics []string) (Method, error) {
	cat, err := methodCategoryByName(md.Category)
	if err != nil {
		return Method{}, err
	}
	m := Method{Name: md.Name, Category: cat}
	if m.Name == "" {
		return Method{}, errors.New("method needs a name")
	}
	for _, pd := range md.Params {
		p, err := l.resolveParam(pd, generics, false)
		if err != nil {
			return Method{}, err
		}
		m.Params = append(m.Params, p)
	}
	if md.Returns != nil {
		r, err := l.resolveParam(*md.Returns, generics, true)
		if err != nil {
			return Method{}, err
		}
		m.Return = &r
	}
	if md.Overload != "" {
		m.Attrs = append(m.Attrs, Attribute{
			Namespace: FoundationMetadata,
			Name:      AttrOverload,
			Args:      []AttrArg{{Kind: ArgString, Str: md.Overload}},
		})
	}
	return m, nil
}

func (l loader) resolveParam(pd paramDoc, generics []string, ret bool) (Param, error) {
	sig, err := l.resolveSig(pd.Type, generics)
	if err != nil {
		return Param{}, err
	}
	name := pd.Name
	if name == "" {
		if !ret {
			return Param{}, errors.Newf("line %d: parameter needs a name", pd.Type.line)
		}
		name = "result"
	}
	return Param{
		Name:  name,
		Sig:   sig,
		In:    !pd.Out && !ret,
		Array: pd.Array || pd.ByRef,
		ByRef: pd.ByRef,
	}, nil
}

func (l loader) fillAttrs(t *TypeDef, td typeDoc) error {
	if td.ExclusiveTo != "" {
		id, err := l.lookupName(td.ExclusiveTo)
		if err != nil {
			return err
		}
		t.Attrs = append(t.Attrs, typeAttr(AttrExclusiveTo, id))
	}
	for _, s := range td.Statics {
		id, err := l.lookupName(s)
		if err != nil {
			return err
		}
		t.Attrs = append(t.Attrs, typeAttr(AttrStatic, id))
	}
	for _, a := range td.Activatable {
		// "direct" declares constructor activation without a factory.
		if a == "direct" {
			t.Attrs = append(t.Attrs, marker(AttrActivatable))
			continue
		}
		id, err := l.lookupName(a)
		if err != nil {
			return err
		}
		t.Attrs = append(t.Attrs, typeAttr(AttrActivatable, id))
	}
	if len(td.Guid) > 0 {
		args, err := guidArgs(td.Guid)
		if err != nil {
			return err
		}
		t.Attrs = append(t.Attrs, Attribute{Namespace: FoundationMetadata, Name: AttrGuid, Args: args})
	}
	for _, ad := range td.Attrs {
		ns := ad.Namespace
		if ns == "" {
			ns = FoundationMetadata
		}
		attr := Attribute{Namespace: ns, Name: ad.Name}
		for _, argDoc := range ad.Args {
			arg := argDoc.arg
			if arg.Kind == ArgType {
				id, err := l.lookupName(argDoc.typeName)
				if err != nil {
					return errors.Wrapf(err, "line %d", argDoc.line)
				}
				arg.Type = id
			}
			attr.Args = append(attr.Args, arg)
		}
		t.Attrs = append(t.Attrs, attr)
	}
	return nil
}

// guidArgs rewrites the guid sugar list into identifier attribute arguments:
// one 32-bit value, two 16-bit values and eight 8-bit values.
func guidArgs(values []uint32) ([]AttrArg, error) {
	if len(values) != 11 {
		return nil, errors.Newf("guid needs 11 values, got %d", len(values))
	}
	args := make([]AttrArg, len(values))
	for i, v := range values {
		kind, limit := ArgU8, uint32(1<<8-1)
		switch {
		case i == 0:
			kind, limit = ArgU32, 1<<32-1
		case i <= 2:
			kind, limit = ArgU16, 1<<16-1
		}
		if v > limit {
			return nil, errors.Newf("guid value %d is %#x, wider than its slot", i, v)
		}
		args[i] = AttrArg{Kind: kind, Num: v}
	}
	return args, nil
}

func (l loader) resolveSig(d sigDoc, generics []string) (Sig, error) {
	if d.of != "" {
		id, err := l.lookupGeneric(d.of, len(d.args), d.line)
		if err != nil {
			return Sig{}, err
		}
		args := make([]Sig, len(d.args))
		for i, a := range d.args {
			args[i], err = l.resolveSig(a, generics)
			if err != nil {
				return Sig{}, err
			}
		}
		return InstSig(id, args...), nil
	}
	name := d.scalar
	if e, ok := ElementByName(name); ok {
		return ElemSig(e), nil
	}
	if strings.Contains(name, ".") {
		id, err := l.lookupName(name)
		if err != nil {
			return Sig{}, errors.Wrapf(err, "line %d", d.line)
		}
		return DefSig(id), nil
	}
	for i, g := range generics {
		if g == name {
			return ParamSig(i), nil
		}
	}
	return Sig{}, errors.Newf("line %d: unknown type %q", d.line, name)
}

func (l loader) lookupName(qn string) (TypeID, error) {
	id, ok := l.store.Lookup(qn)
	if !ok {
		return None, errors.Newf("unknown type %s", qn)
	}
	return id, nil
}

// lookupGeneric resolves an instantiation target, trying the bare name first
// and then the backtick-arity spelling.
func (l loader) lookupGeneric(qn string, arity, line int) (TypeID, error) {
	if id, ok := l.store.Lookup(qn); ok {
		return id, nil
	}
	if id, ok := l.store.Lookup(fmt.Sprintf("%s`%d", qn, arity)); ok {
		return id, nil
	}
	return None, errors.Newf("line %d: unknown generic type %s", line, qn)
}

func marker(name string) Attribute {
	return Attribute{Namespace: FoundationMetadata, Name: name}
}

func typeAttr(name string, id TypeID) Attribute {
	return Attribute{
		Namespace: FoundationMetadata,
		Name:      name,
		Args:      []AttrArg{{Kind: ArgType, Type: id}},
	}
}

func categoryByName(name string) (TypeCategory, error) {
	switch name {
	case "interface":
		return CategoryInterface, nil
	case "class":
		return CategoryClass, nil
	case "struct":
		return CategoryStruct, nil
	case "enum":
		return CategoryEnum, nil
	case "delegate":
		return CategoryDelegate, nil
	default:
		return 0, errors.Newf("unknown category %q", name)
	}
}

func methodCategoryByName(name string) (MethodCategory, error) {
	switch name {
	case "", "normal":
		return MethodNormal, nil
	case "get":
		return MethodGet, nil
	case "set":
		return MethodSet, nil
	case "add":
		return MethodAdd, nil
	case "remove":
		return MethodRemove, nil
	default:
		return 0, errors.Newf("unknown method category %q", name)
	}
}

// genericName normalizes a generic type name to its backtick-arity spelling
// and validates a declared suffix against the parameter count.
func genericName(name string, arity int) (string, error) {
	base, suffix, found := strings.Cut(name, "`")
	if arity == 0 {
		if found {
			return "", errors.Newf("name %q has an arity suffix but no generic parameters", name)
		}
		return name, nil
	}
	if !found {
		return fmt.Sprintf("%s`%d", name, arity), nil
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n != arity {
		return "", errors.Newf("name %q arity suffix does not match %d generic parameters", base, arity)
	}
	return name, nil
}
