package cartridge

// Item is a single course record: one assignment, one page, one module
// entry. Records are free-form JSON objects, so Item stays a map and
// exposes typed accessors for the keys the pipeline relies on.
type Item map[string]any

// Identifier returns the record's unique identifier within its group,
// or "" when the record has none.
func (it Item) Identifier() string {
	return it.Text("identifier")
}

// Title returns the record's display title, or "" when absent.
func (it Item) Title() string {
	return it.Text("title")
}

// Type returns the linked-content tag of a module item record.
func (it Item) Type() ItemType {
	return ItemType(it.Text("type"))
}

// Text returns the string value stored under key, or "" when the key
// is absent or holds a non-string value.
func (it Item) Text(key string) string {
	s, _ := it[key].(string)
	return s
}

// Bool returns the boolean value stored under key. Absent keys and
// non-boolean values read as false.
func (it Item) Bool(key string) bool {
	b, _ := it[key].(bool)
	return b
}

// Items returns the nested records stored under key. JSON decoding
// leaves nested arrays as []any, while code that rewrites a group
// stores []Item directly; both shapes are handled. Non-record entries
// are skipped.
func (it Item) Items(key string) []Item {
	switch v := it[key].(type) {
	case []Item:
		return v
	case []any:
		out := make([]Item, 0, len(v))
		for _, el := range v {
			switch rec := el.(type) {
			case map[string]any:
				out = append(out, Item(rec))
			case Item:
				out = append(out, rec)
			}
		}
		return out
	default:
		return nil
	}
}

// Merge copies every key of patch into the record, overwriting matching
// keys and adding new ones. It returns the receiver so lookups can
// chain a patch in one expression. Merging into a record nothing else
// references is a deliberate no-op from the caller's point of view.
func (it Item) Merge(patch Item) Item {
	for k, v := range patch {
		it[k] = v
	}
	return it
}

// Content is a fully decoded course: its title and every resource
// group. A missing course title decodes as "".
type Content struct {
	Title  string
	Groups map[Resource][]Item
}

// Group returns the records under r. Groups the manifest omitted read
// as empty.
func (c *Content) Group(r Resource) []Item {
	if c == nil || c.Groups == nil {
		return nil
	}
	return c.Groups[r]
}

// SetGroup replaces the records under r.
func (c *Content) SetGroup(r Resource, items []Item) {
	if c.Groups == nil {
		c.Groups = make(map[Resource][]Item)
	}
	c.Groups[r] = items
}

// Modules returns the module records in instructor order.
func (c *Content) Modules() []Item {
	return c.Group(ResourceModules)
}
