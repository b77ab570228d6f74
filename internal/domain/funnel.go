package domain

// FunnelState es la pantalla activa de una sesion.
type FunnelState string

const (
	StateLanding     FunnelState = "LANDING"
	StateAssessment  FunnelState = "ASSESSMENT"
	StateAnalyzing   FunnelState = "ANALYZING"
	StateLeadCapture FunnelState = "LEAD_CAPTURE"
	StateResults     FunnelState = "RESULTS"
)

// FunnelEvent dispara una transicion.
type FunnelEvent string

const (
	EventStart            FunnelEvent = "start"
	EventSubmitAssessment FunnelEvent = "submit_assessment"
	EventAuditReady       FunnelEvent = "audit_ready"
	EventAuditAborted     FunnelEvent = "audit_aborted"
	EventSubmitLead       FunnelEvent = "submit_lead"
)

type transitionKey struct {
	from  FunnelState
	event FunnelEvent
}

// No hay transiciones hacia atras desde ANALYZING, LEAD_CAPTURE ni RESULTS,
// salvo audit_aborted que devuelve la sesion al formulario.
var funnelTransitions = map[transitionKey]FunnelState{
	{StateLanding, EventStart}:               StateAssessment,
	{StateAssessment, EventSubmitAssessment}: StateAnalyzing,
	{StateAnalyzing, EventAuditReady}:        StateLeadCapture,
	{StateAnalyzing, EventAuditAborted}:      StateAssessment,
	{StateLeadCapture, EventSubmitLead}:      StateResults,
}

// NextState consulta la tabla de transiciones.
func NextState(from FunnelState, event FunnelEvent) (FunnelState, bool) {
	to, ok := funnelTransitions[transitionKey{from: from, event: event}]
	return to, ok
}

// AllowedEvents lista los eventos legales desde un estado.
func AllowedEvents(from FunnelState) []FunnelEvent {
	var out []FunnelEvent
	for _, ev := range []FunnelEvent{EventStart, EventSubmitAssessment, EventAuditReady, EventAuditAborted, EventSubmitLead} {
		if _, ok := funnelTransitions[transitionKey{from: from, event: ev}]; ok {
			out = append(out, ev)
		}
	}
	return out
}
