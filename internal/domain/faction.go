package domain

// ResearchProject - активный исследовательский проект фракции.
type ResearchProject struct {
	Technology string `json:"technology"`
	Remaining  int    `json:"remaining"` // Сколько очков науки осталось вложить
}

// House - суб-фракция: группа игроков, делящая территорию и активы одной
// фракции под общей моделью правления.
type House struct {
	ID       HouseID        `json:"id"`
	Name     string         `json:"name"`
	Members  []PlayerID     `json:"members"`
	Charter  GovernmentKind `json:"charter"`
	// Seats - распределение ролей внутри дома (произвольные ярлыки:
	// "warmaster", "treasurer"...). Ключ - роль, значение - игрок.
	Seats map[string]PlayerID `json:"seats,omitempty"`
}

// Faction - игровая фракция.
type Faction struct {
	ID   FactionID `json:"id"`
	Name string    `json:"name"`
	Race string    `json:"race"`

	LeaderID   PlayerID       `json:"leaderId"`
	Government GovernmentKind `json:"government"`

	// Treasury - казна по видам ресурсов. Инвариант: после завершения хода
	// значения никогда не отрицательные (клампятся в ноль).
	Treasury map[ResourceKind]int `json:"treasury"`

	// TaxPolicy - ставка налога в процентах, влияет на доход и рост населения.
	TaxPolicy int `json:"taxPolicy"`

	Technologies []string         `json:"technologies,omitempty"`
	Research     *ResearchProject `json:"research,omitempty"`

	// Relations - дипломатическая таблица по id других фракций.
	// Отсутствие записи = нейтралитет.
	Relations map[FactionID]Relation `json:"relations,omitempty"`

	Houses map[HouseID]*House `json:"houses,omitempty"`

	// Reputation - отношение малых фракций (рейды/торговля его двигают).
	Reputation int `json:"reputation"`

	Eliminated bool `json:"eliminated"`
}

// RelationTo возвращает отношение к другой фракции (нейтралитет по умолчанию).
func (f *Faction) RelationTo(other FactionID) Relation {
	if f.Relations == nil {
		return RelationNeutral
	}
	return f.Relations[other]
}

// SetRelation выставляет отношение к другой фракции.
func (f *Faction) SetRelation(other FactionID, r Relation) {
	if f.Relations == nil {
		f.Relations = make(map[FactionID]Relation)
	}
	f.Relations[other] = r
}

// HasTechnology проверяет, открыта ли технология.
func (f *Faction) HasTechnology(tech string) bool {
	for _, t := range f.Technologies {
		if t == tech {
			return true
		}
	}
	return false
}

// Resource возвращает количество ресурса в казне.
func (f *Faction) Resource(kind ResourceKind) int {
	if f.Treasury == nil {
		return 0
	}
	return f.Treasury[kind]
}

// CanAfford проверяет, хватает ли казны на стоимость.
func (f *Faction) CanAfford(cost map[ResourceKind]int) bool {
	for kind, amount := range cost {
		if f.Resource(kind) < amount {
			return false
		}
	}
	return true
}

// Spend списывает стоимость из казны. Вызывающий обязан проверить CanAfford;
// при нехватке значение клампится в ноль (инвариант казны важнее недоимки).
func (f *Faction) Spend(cost map[ResourceKind]int) {
	if f.Treasury == nil {
		f.Treasury = make(map[ResourceKind]int)
	}
	for kind, amount := range cost {
		f.Treasury[kind] -= amount
		if f.Treasury[kind] < 0 {
			f.Treasury[kind] = 0
		}
	}
}

// Credit зачисляет ресурс в казну.
func (f *Faction) Credit(kind ResourceKind, amount int) {
	if f.Treasury == nil {
		f.Treasury = make(map[ResourceKind]int)
	}
	f.Treasury[kind] += amount
}

// ClampTreasury приводит казну к инварианту неотрицательности.
// Вызывается в конце экономической фазы.
func (f *Faction) ClampTreasury() {
	for kind, amount := range f.Treasury {
		if amount < 0 {
			f.Treasury[kind] = 0
		}
	}
}
