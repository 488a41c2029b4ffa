package access

// Fields is a loosely typed create or update payload keyed by JSON field name
type Fields map[string]any

// PrepareCreate forces zone, and unit when withUnit is set, to the actor's
// own assignment for every non-admin. Client-supplied values are discarded,
// as is a non-admin's createdAt.
func PrepareCreate(actor Actor, fields Fields, withUnit bool) Fields {
	if fields == nil {
		fields = Fields{}
	}
	if actor.IsAdmin() {
		return fields
	}
	delete(fields, "createdAt")
	fields["zone"] = actor.Zone
	if withUnit {
		fields["unit"] = actor.Unit
	}
	return fields
}

// PrepareUpdate removes any attempt by a non-admin to move a record to
// another zone. The rest of the patch is left untouched.
func PrepareUpdate(actor Actor, patch Fields) Fields {
	if patch == nil || actor.IsAdmin() {
		return patch
	}
	delete(patch, "zone")
	return patch
}
