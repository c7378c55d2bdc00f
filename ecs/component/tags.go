package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type NPCTag struct{}

var NPCTagComponent = NewComponent[NPCTag]()

type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
