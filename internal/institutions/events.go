package institutions

import "github.com/google/uuid"

// EventPlan lists the changes that turn an institution's stored events into
// a requested list. Kept events retain their ID, so photos tagged with them
// stay linked.
type EventPlan struct {
	// Keep holds matched events carrying their new Position.
	Keep []Event
	// Insert holds events to create; ID and CreatedAt are unset.
	Insert []Event
	Drop   []uuid.UUID
}

// PlanEvents matches inputs to existing events by name. Each existing event
// is matched at most once, in position order, so repeated names pair up
// one to one.
func PlanEvents(existing []Event, inputs []EventInput) EventPlan {
	byName := make(map[string][]Event, len(existing))
	for _, e := range existing {
		byName[e.Name] = append(byName[e.Name], e)
	}

	var plan EventPlan
	for pos, in := range inputs {
		if candidates := byName[in.Name]; len(candidates) > 0 {
			e := candidates[0]
			byName[in.Name] = candidates[1:]
			e.Position = pos
			plan.Keep = append(plan.Keep, e)
			continue
		}
		plan.Insert = append(plan.Insert, Event{Name: in.Name, Position: pos})
	}

	for _, e := range existing {
		for _, left := range byName[e.Name] {
			if left.ID == e.ID {
				plan.Drop = append(plan.Drop, e.ID)
				break
			}
		}
	}
	return plan
}
