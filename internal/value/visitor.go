package value

// Visitor is implemented by every total transform over Value. Each method
// returns a new Value; implementations must not mutate their argument.
type Visitor interface {
	VisitInt(Int) Value
	VisitFloat(Float) Value
	VisitBool(Bool) Value
	VisitString(String) Value
	VisitBinary(Binary) Value
	VisitFilesize(Filesize) Value
	VisitDate(Date) Value
	VisitNothing(Nothing) Value
	VisitError(Error) Value
	VisitList(List) Value
	VisitRecord(Record) Value
}

func (v Int) Accept(vis Visitor) Value      { return vis.VisitInt(v) }
func (v Float) Accept(vis Visitor) Value    { return vis.VisitFloat(v) }
func (v Bool) Accept(vis Visitor) Value     { return vis.VisitBool(v) }
func (v String) Accept(vis Visitor) Value   { return vis.VisitString(v) }
func (v Binary) Accept(vis Visitor) Value   { return vis.VisitBinary(v) }
func (v Filesize) Accept(vis Visitor) Value { return vis.VisitFilesize(v) }
func (v Date) Accept(vis Visitor) Value     { return vis.VisitDate(v) }
func (v Nothing) Accept(vis Visitor) Value  { return vis.VisitNothing(v) }
func (v Error) Accept(vis Visitor) Value    { return vis.VisitError(v) }
func (v List) Accept(vis Visitor) Value     { return vis.VisitList(v) }
func (v Record) Accept(vis Visitor) Value   { return vis.VisitRecord(v) }
