package diffmodel

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// ModelDelta is the top-level result of comparing two models: the
// file-level labels for each side, the delta of model-wide properties,
// and the per-component deltas across every registered ComponentType.
//
// Components are kept in three buckets (additions, modifications,
// deletions) rather than one flat list because that's the order they're
// written in, per the patch grammar.
type ModelDelta struct {
	Older, Newer  FileDescription
	ModelType     *ModelType
	ModelProperty *PropertyDeltaMap
	Additions     []*Addition
	Modifications []*Modification
	Deletions     []*Deletion
}

// HasDifferences reports whether this delta carries any change at all:
// a model property change, or a non-empty addition/modification/deletion
// bucket. An empty ModelDelta (nothing differs between older and newer)
// reports false.
func (d *ModelDelta) HasDifferences() bool {
	return d.ModelProperty.Len() > 0 || len(d.Additions) > 0 || len(d.Modifications) > 0 || len(d.Deletions) > 0
}

// Compare builds a ModelDelta between an older and newer model of the
// same ModelType. olderModel and newerModel are the hosts for
// ModelType.Properties. olderTables and newerTables supply, for each
// registered ComponentType, the Table holding that side's instances of
// it; a ComponentType missing from either map is skipped.
func Compare(modelType *ModelType, older, newer FileDescription, olderModel, newerModel interface{}, olderTables, newerTables map[*ComponentType]Table, session Session) (*ModelDelta, error) {
	modelDelta, err := FromDifferences(modelType.Properties, olderModel, newerModel, session)
	if err != nil {
		return nil, fmt.Errorf("comparing model properties: %w", err)
	}

	result := &ModelDelta{
		Older:         older,
		Newer:         newer,
		ModelType:     modelType,
		ModelProperty: modelDelta,
	}

	additions, modifications, deletions, err := CompareTables(modelType, olderTables, newerTables, session)
	if err != nil {
		return nil, err
	}
	result.Additions = additions
	result.Modifications = modifications
	result.Deletions = deletions
	return result, nil
}

// CompareTables builds the per-type component deltas given, for each
// ComponentType, the older and newer Table to intersect. Compare calls
// this after resolving the model-wide property delta; adapters that only
// need component deltas may call it directly.
func CompareTables(modelType *ModelType, olderTables, newerTables map[*ComponentType]Table, session Session) (additions []*Addition, modifications []*Modification, deletions []*Deletion, err error) {
	for _, ct := range modelType.Components.All() {
		olderTable, newerTable := olderTables[ct], newerTables[ct]
		if olderTable == nil || newerTable == nil {
			continue
		}
		intersection := Intersect(olderTable, newerTable)

		for _, e := range intersection.Deleted {
			session.SetContext(ct.Name, e.ID, "")
			var defaultHost interface{}
			if ct.New != nil {
				defaultHost = ct.New()
			}
			props, perr := FromNonDefaultValues(ct.Properties, e.Component, defaultHost)
			if perr != nil {
				return nil, nil, nil, perr
			}
			deletions = append(deletions, &Deletion{ComponentType: ct, ID: e.ID, Properties: props})
		}
		for _, e := range intersection.Added {
			session.SetContext(ct.Name, e.ID, "")
			var defaultHost interface{}
			if ct.New != nil {
				defaultHost = ct.New()
			}
			props, perr := FromNonDefaultValues(ct.Properties, e.Component, defaultHost)
			if perr != nil {
				return nil, nil, nil, perr
			}
			additions = append(additions, &Addition{ComponentType: ct, ID: e.ID, Properties: props})
		}
		for _, e := range intersection.Common {
			session.SetContext(ct.Name, e.ID, "")
			props, perr := FromDifferences(ct.Properties, e.Older, e.Newer, session)
			if perr != nil {
				return nil, nil, nil, perr
			}
			if props.Len() == 0 {
				continue
			}
			modifications = append(modifications, &Modification{ComponentType: ct, ID: e.ID, Properties: props})
		}
	}
	session.SetContext("", uuid.Nil, "")
	return additions, modifications, deletions, nil
}

// Write serializes the ModelDelta in the line-oriented patch format:
// file headers, model property lines, then additions, modifications,
// and deletions in that order.
func (d *ModelDelta) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "--- %s\n", d.Older)
	fmt.Fprintf(bw, "+++ %s\n", d.Newer)
	for _, e := range d.ModelProperty.Entries() {
		fmt.Fprintf(bw, "%s%s: %s\n", indent, e.Property.Name, e.Delta)
	}
	for _, a := range d.Additions {
		fmt.Fprintln(bw, a)
		for _, e := range a.Properties.Entries() {
			fmt.Fprintf(bw, "%s%s: %s\n", indent, e.Property.Name, e.Value)
		}
	}
	for _, m := range d.Modifications {
		if m.IsEmpty() {
			continue
		}
		fmt.Fprintln(bw, m)
		for _, e := range m.Properties.Entries() {
			fmt.Fprintf(bw, "%s%s: %s\n", indent, e.Property.Name, e.Delta)
		}
	}
	for _, del := range d.Deletions {
		fmt.Fprintln(bw, del)
		for _, e := range del.Properties.Entries() {
			fmt.Fprintf(bw, "%s%s: %s\n", indent, e.Property.Name, e.Value)
		}
	}
	return bw.Flush()
}

// Read parses a ModelDelta from its textual patch form. modelType
// supplies the property and component-type schema used to interpret
// property lines; line numbers in returned errors start at 3, since
// lines 1 and 2 are always the file headers.
func Read(r io.Reader, modelType *ModelType) (*ModelDelta, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: missing older file header", ErrMalformedHeader)
	}
	olderMatch := olderHeaderPattern.FindStringSubmatch(scanner.Text())
	if olderMatch == nil {
		return nil, wrapParseError(1, fmt.Errorf("%w: expected \"--- \" header", ErrMalformedHeader))
	}
	older, err := parseFileDescription(olderMatch[1])
	if err != nil {
		return nil, wrapParseError(1, err)
	}

	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: missing newer file header", ErrMalformedHeader)
	}
	newerMatch := newerHeaderPattern.FindStringSubmatch(scanner.Text())
	if newerMatch == nil {
		return nil, wrapParseError(2, fmt.Errorf("%w: expected \"+++ \" header", ErrMalformedHeader))
	}
	newer, err := parseFileDescription(newerMatch[1])
	if err != nil {
		return nil, wrapParseError(2, err)
	}

	result := &ModelDelta{
		Older:         older,
		Newer:         newer,
		ModelType:     modelType,
		ModelProperty: NewPropertyDeltaMap(),
	}

	// Incremented before each body line is handled, so the first body
	// line is reported as line 3.
	lineNumber := 2
	var currentComponentType *ComponentType
	var currentSign rune
	var currentID uuid.UUID
	var currentValueMap *PropertyValueMap
	var currentDeltaMap *PropertyDeltaMap

	// flush builds the pending component delta through the same
	// componentDeltasBySign registry the grammar is documented against,
	// rather than re-deriving the sign->kind mapping here, so the two
	// can't drift.
	flush := func() error {
		if currentComponentType == nil {
			return nil
		}
		cd, err := ComponentDeltaForSign(currentSign)
		if err != nil {
			return err
		}
		switch v := cd.(type) {
		case *Addition:
			v.ComponentType, v.ID, v.Properties = currentComponentType, currentID, currentValueMap
			result.Additions = append(result.Additions, v)
		case *Deletion:
			v.ComponentType, v.ID, v.Properties = currentComponentType, currentID, currentValueMap
			result.Deletions = append(result.Deletions, v)
		case *Modification:
			v.ComponentType, v.ID, v.Properties = currentComponentType, currentID, currentDeltaMap
			result.Modifications = append(result.Modifications, v)
		}
		return nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNumber++

		if strings.HasPrefix(line, "@@") {
			if err := flush(); err != nil {
				return nil, err
			}
			sign, typeName, rawID, perr := parseComponentHeader(line)
			if perr != nil {
				return nil, wrapParseError(lineNumber, perr)
			}
			ct, cerr := modelType.Components.FindByName(typeName)
			if cerr != nil {
				return nil, wrapParseError(lineNumber, cerr)
			}
			id, uerr := uuid.Parse(rawID)
			if uerr != nil {
				return nil, wrapParseError(lineNumber, fmt.Errorf("invalid component id %q: %w", rawID, uerr))
			}
			currentComponentType = ct
			currentSign = sign
			currentID = id
			currentValueMap = NewPropertyValueMap()
			currentDeltaMap = NewPropertyDeltaMap()
			continue
		}

		name, content, ok := parsePropertyLine(line)
		if !ok {
			return nil, wrapParseError(lineNumber, fmt.Errorf("%w: expected indented property line", ErrMalformedHeader))
		}

		var properties []*Property
		if currentComponentType != nil {
			properties = currentComponentType.Properties
		} else {
			properties = modelType.Properties
		}
		var property *Property
		for _, p := range properties {
			if p.NameFold() == strings.ToLower(name) {
				property = p
				break
			}
		}
		if property == nil {
			return nil, wrapParseError(lineNumber, fmt.Errorf("%w: %s", ErrUnknownProperty, name))
		}

		if currentComponentType == nil {
			delta, _, derr := property.Kind.ParseDelta(content)
			if derr != nil {
				return nil, wrapParseError(lineNumber, derr)
			}
			result.ModelProperty.Set(property, delta)
			continue
		}

		if currentSign == '~' {
			delta, _, derr := property.Kind.ParseDelta(content)
			if derr != nil {
				return nil, wrapParseError(lineNumber, derr)
			}
			currentDeltaMap.Set(property, delta)
		} else {
			value, _, verr := property.Kind.ParseValue(content)
			if verr != nil {
				return nil, wrapParseError(lineNumber, verr)
			}
			currentValueMap.Set(property, value)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Apply applies every component and model-property delta to a model,
// through each ComponentType's Table: additions are inserted, deletions
// removed, modifications applied in place via their accessors.
func (d *ModelDelta) Apply(modelHost interface{}, session Session) error {
	for _, e := range d.ModelProperty.Entries() {
		raw, err := e.Property.Accessor.Get(modelHost)
		if err != nil {
			return fmt.Errorf("reading model property %s: %w", e.Property.Name, err)
		}
		current, err := e.Property.Kind.New(raw)
		if err != nil {
			return fmt.Errorf("parsing model property %s: %w", e.Property.Name, err)
		}
		updated := e.Delta.Apply(current, session)
		if err := e.Property.Accessor.Set(modelHost, updated.Raw()); err != nil {
			return fmt.Errorf("writing model property %s: %w", e.Property.Name, err)
		}
	}

	for _, a := range d.Additions {
		session.SetContext(a.ComponentType.Name, a.ID, "")
		if a.ComponentType.New == nil {
			return fmt.Errorf("component type %s has no constructor to apply an addition", a.ComponentType.Name)
		}
		host := a.ComponentType.New()
		for _, e := range a.Properties.Entries() {
			if err := e.Property.Accessor.Set(host, e.Value.Raw()); err != nil {
				return fmt.Errorf("setting %s on new %s: %w", e.Property.Name, a.ComponentType.Name, err)
			}
		}
		if err := a.ComponentType.Table.AddComponent(a.ID.String(), host); err != nil {
			return fmt.Errorf("adding %s %s: %w", a.ComponentType.Name, a.ID, err)
		}
	}

	for _, m := range d.Modifications {
		session.SetContext(m.ComponentType.Name, m.ID, "")
		host, err := m.ComponentType.Table.GetComponent(m.ID.String())
		if err != nil {
			return fmt.Errorf("looking up %s %s: %w", m.ComponentType.Name, m.ID, err)
		}
		for _, e := range m.Properties.Entries() {
			session.SetContext(m.ComponentType.Name, m.ID, e.Property.Name)
			raw, err := e.Property.Accessor.Get(host)
			if err != nil {
				return fmt.Errorf("reading %s: %w", e.Property.Name, err)
			}
			current, err := e.Property.Kind.New(raw)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", e.Property.Name, err)
			}
			updated := e.Delta.Apply(current, session)
			if err := e.Property.Accessor.Set(host, updated.Raw()); err != nil {
				return fmt.Errorf("writing %s: %w", e.Property.Name, err)
			}
		}
	}

	for _, del := range d.Deletions {
		session.SetContext(del.ComponentType.Name, del.ID, "")
		if err := del.ComponentType.Table.DeleteComponent(del.ID.String()); err != nil {
			return fmt.Errorf("deleting %s %s: %w", del.ComponentType.Name, del.ID, err)
		}
	}
	session.SetContext("", uuid.Nil, "")
	return nil
}

// Reverse returns the ModelDelta that undoes d: additions become
// deletions, deletions become additions, modifications invert their
// property deltas, and the file labels swap.
func (d *ModelDelta) Reverse() *ModelDelta {
	result := &ModelDelta{
		Older:         d.Newer,
		Newer:         d.Older,
		ModelType:     d.ModelType,
		ModelProperty: d.ModelProperty.Reverse(),
	}
	for _, a := range d.Additions {
		if del, ok := a.Reverse().(*Deletion); ok {
			result.Deletions = append(result.Deletions, del)
		}
	}
	for _, del := range d.Deletions {
		if a, ok := del.Reverse().(*Addition); ok {
			result.Additions = append(result.Additions, a)
		}
	}
	for _, m := range d.Modifications {
		if rm, ok := m.Reverse().(*Modification); ok {
			result.Modifications = append(result.Modifications, rm)
		}
	}
	return result
}

// FindComponent returns the ComponentDelta for a given component type and
// id, if this ModelDelta records any change to it.
func (d *ModelDelta) FindComponent(componentType *ComponentType, id uuid.UUID) (ComponentDelta, bool) {
	for _, a := range d.Additions {
		if a.ComponentType == componentType && a.ID == id {
			return a, true
		}
	}
	for _, m := range d.Modifications {
		if m.ComponentType == componentType && m.ID == id {
			return m, true
		}
	}
	for _, del := range d.Deletions {
		if del.ComponentType == componentType && del.ID == id {
			return del, true
		}
	}
	return nil, false
}

// Merge combines d with other, an independent ModelDelta against the
// same older model, into the three-way merge of both changesets. A
// component touched incompatibly by both sides (e.g. deleted on one,
// modified on the other) is reported as a ComponentMergeError
// (ErrIncompatibleMerge) from the underlying ComponentDelta.Merge; two
// sides recording different entries for the same property are reported
// as a MergeConflictError.
func (d *ModelDelta) Merge(other *ModelDelta) (*ModelDelta, error) {
	modelProperty, err := d.ModelProperty.Merge(other.ModelProperty)
	if err != nil {
		return nil, err
	}

	result := &ModelDelta{
		Older:         d.Older,
		Newer:         d.Newer,
		ModelType:     d.ModelType,
		ModelProperty: modelProperty,
	}

	merged := make(map[uuid.UUID]ComponentDelta)
	var order []uuid.UUID

	addAll := func(deltas []ComponentDelta) error {
		for _, cd := range deltas {
			id := cd.ComponentID()
			if existing, ok := merged[id]; ok {
				m, merr := existing.Merge(cd)
				if merr != nil {
					return merr
				}
				merged[id] = m
				continue
			}
			merged[id] = cd
			order = append(order, id)
		}
		return nil
	}

	if err := addAll(d.allComponentDeltas()); err != nil {
		return nil, err
	}
	if err := addAll(other.allComponentDeltas()); err != nil {
		return nil, err
	}

	for _, id := range order {
		switch cd := merged[id].(type) {
		case *Addition:
			result.Additions = append(result.Additions, cd)
		case *Modification:
			if !cd.IsEmpty() {
				result.Modifications = append(result.Modifications, cd)
			}
		case *Deletion:
			result.Deletions = append(result.Deletions, cd)
		}
	}
	return result, nil
}

func (d *ModelDelta) allComponentDeltas() []ComponentDelta {
	out := make([]ComponentDelta, 0, len(d.Additions)+len(d.Modifications)+len(d.Deletions))
	for _, a := range d.Additions {
		out = append(out, a)
	}
	for _, m := range d.Modifications {
		out = append(out, m)
	}
	for _, del := range d.Deletions {
		out = append(out, del)
	}
	return out
}
