// Package model defines the records shared by the form, list and query layers:
// the User resource exchanged with the REST collaborator, the static Field
// descriptors that drive generic form rendering, and the ephemeral
// FormValues/Errors maps scoped to an open form session. Renderers consume
// these types directly; none of them carry behaviour beyond small accessors.
package model
