package elvanto

// API record shapes. Every container boundary goes through the lenient
// decoders in shape.go, so singleton-collapsed and empty fields are already
// normalized by the time these structs are populated.

// Person is a person record as returned by people/getAll. Demographics and
// Departments are only populated when the corresponding fields are requested.
type Person struct {
	ID            string       `json:"id"`
	Firstname     string       `json:"firstname"`
	PreferredName string       `json:"preferred_name"`
	Lastname      string       `json:"lastname"`
	Email         string       `json:"email"`
	Archived      Flag         `json:"archived"`
	CategoryID    string       `json:"category_id"`
	Demographics  Demographics `json:"demographics"`
	Departments   Departments  `json:"departments"`
}

// Demographic is a demographic tag ("Adults", "Children", "Youth", ...).
type Demographic struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Demographics wraps the demographic container on a person record.
type Demographics struct {
	Demographic OneOrMany[Demographic] `json:"demographic"`
}

func (d *Demographics) UnmarshalJSON(data []byte) error {
	type plain Demographics
	*d = Demographics{}
	return unmarshalObject(data, (*plain)(d))
}

// Departments wraps the department container on a person record.
type Departments struct {
	Department OneOrMany[Department] `json:"department"`
}

func (d *Departments) UnmarshalJSON(data []byte) error {
	type plain Departments
	*d = Departments{}
	return unmarshalObject(data, (*plain)(d))
}

// Department is one level of the department → sub-department → position tree.
type Department struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	SubDepartments SubDepartments `json:"sub_departments"`
}

type SubDepartments struct {
	SubDepartment OneOrMany[SubDepartment] `json:"sub_department"`
}

func (s *SubDepartments) UnmarshalJSON(data []byte) error {
	type plain SubDepartments
	*s = SubDepartments{}
	return unmarshalObject(data, (*plain)(s))
}

type SubDepartment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Positions Positions `json:"positions"`
}

type Positions struct {
	Position OneOrMany[Position] `json:"position"`
}

func (p *Positions) UnmarshalJSON(data []byte) error {
	type plain Positions
	*p = Positions{}
	return unmarshalObject(data, (*plain)(p))
}

// Position is a rostered position under a sub-department.
type Position struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Group is a group record as returned by groups/getAll. People is populated
// when fetched with the "people" field, Categories with the "categories"
// field; the API cannot return both in one call.
type Group struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	People     GroupPeople     `json:"people"`
	Categories GroupCategories `json:"categories"`
}

type GroupPeople struct {
	Person OneOrMany[GroupMember] `json:"person"`
}

func (g *GroupPeople) UnmarshalJSON(data []byte) error {
	type plain GroupPeople
	*g = GroupPeople{}
	return unmarshalObject(data, (*plain)(g))
}

// GroupMember is a person entry inside a group, carrying the membership role
// ("Leader", "Member", ...) alongside the person's identity fields.
type GroupMember struct {
	ID            string `json:"id"`
	Firstname     string `json:"firstname"`
	PreferredName string `json:"preferred_name"`
	Lastname      string `json:"lastname"`
	Email         string `json:"email"`
	Position      string `json:"position"`
}

type GroupCategories struct {
	Category OneOrMany[Category] `json:"category"`
}

func (g *GroupCategories) UnmarshalJSON(data []byte) error {
	type plain GroupCategories
	*g = GroupCategories{}
	return unmarshalObject(data, (*plain)(g))
}

// Category is a people category or a group category; the two namespaces are
// disjoint and come from different endpoints.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
