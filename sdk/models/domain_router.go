package models

// DomainRouter routes a domain to a virtual host, URL redirect or node.
type DomainRouter struct {
	resource

	domain        *string
	forceSSL      bool
	virtualHostID *int
	urlRedirectID *int
	nodeID        *int
}

// NewDomainRouter returns a router with force_ssl enabled.
func NewDomainRouter() *DomainRouter {
	return &DomainRouter{forceSSL: true}
}

func (d *DomainRouter) Domain() string { return deref(d.domain) }

func (d *DomainRouter) SetDomain(domain string) { d.domain = &domain }

func (d *DomainRouter) ForceSSL() bool { return d.forceSSL }

func (d *DomainRouter) SetForceSSL(force bool) { d.forceSSL = force }

func (d *DomainRouter) VirtualHostID() *int { return refCopy(d.virtualHostID) }

func (d *DomainRouter) SetVirtualHostID(id *int) { d.virtualHostID = refCopy(id) }

func (d *DomainRouter) URLRedirectID() *int { return refCopy(d.urlRedirectID) }

func (d *DomainRouter) SetURLRedirectID(id *int) { d.urlRedirectID = refCopy(id) }

func (d *DomainRouter) NodeID() *int { return refCopy(d.nodeID) }

func (d *DomainRouter) SetNodeID(id *int) { d.nodeID = refCopy(id) }

// FromMap implements Model.
func (d *DomainRouter) FromMap(data map[string]any) error {
	m := NewDomainRouter()
	r := newReader(data)
	required(r, "domain", asString, plain(m.SetDomain))
	field(r, "force_ssl", true, asBool, plain(m.SetForceSSL))
	optional(r, "virtual_host_id", asInt, plain(m.SetVirtualHostID))
	optional(r, "url_redirect_id", asInt, plain(m.SetURLRedirectID))
	optional(r, "node_id", asInt, plain(m.SetNodeID))
	m.resource.read(r)
	if err := r.done(); err != nil {
		return err
	}
	*d = *m
	return nil
}

// ToMap implements Model.
func (d *DomainRouter) ToMap() map[string]any {
	return d.resource.write(map[string]any{
		"domain":          val(d.domain),
		"force_ssl":       d.forceSSL,
		"virtual_host_id": val(d.virtualHostID),
		"url_redirect_id": val(d.urlRedirectID),
		"node_id":         val(d.nodeID),
	})
}
