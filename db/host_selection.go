package db

import (
	"github.com/gocql/gocql"
	"go.uber.org/atomic"
)

// localDcPolicy routes every query to the datacenter of the first host it learns about, the
// dataset is small enough to never need cross-dc reads.
type localDcPolicy struct {
	child    atomic.Value
	dcPinned atomic.Bool
}

type childPolicyHolder struct {
	policy gocql.HostSelectionPolicy
}

func NewDefaultHostSelectionPolicy() gocql.HostSelectionPolicy {
	return gocql.TokenAwareHostPolicy(newLocalDcPolicy(), gocql.ShuffleReplicas())
}

func newLocalDcPolicy() *localDcPolicy {
	policy := &localDcPolicy{}
	policy.child.Store(childPolicyHolder{gocql.RoundRobinHostPolicy()})
	return policy
}

func (p *localDcPolicy) current() gocql.HostSelectionPolicy {
	return p.child.Load().(childPolicyHolder).policy
}

func (p *localDcPolicy) AddHost(host *gocql.HostInfo) {
	if p.dcPinned.CAS(false, true) {
		policy := gocql.DCAwareRoundRobinPolicy(host.DataCenter())
		p.child.Store(childPolicyHolder{policy})
		policy.AddHost(host)
		return
	}
	p.current().AddHost(host)
}

func (p *localDcPolicy) RemoveHost(host *gocql.HostInfo)             { p.current().RemoveHost(host) }
func (p *localDcPolicy) HostUp(host *gocql.HostInfo)                 { p.current().HostUp(host) }
func (p *localDcPolicy) HostDown(host *gocql.HostInfo)               { p.current().HostDown(host) }
func (p *localDcPolicy) SetPartitioner(partitioner string)           { p.current().SetPartitioner(partitioner) }
func (p *localDcPolicy) KeyspaceChanged(e gocql.KeyspaceUpdateEvent) { p.current().KeyspaceChanged(e) }
func (p *localDcPolicy) IsLocal(host *gocql.HostInfo) bool           { return p.current().IsLocal(host) }
func (p *localDcPolicy) Pick(query gocql.ExecutableQuery) gocql.NextHost {
	return p.current().Pick(query)
}

// Init is a no-op, the token aware parent does not initialize its fallback policy
func (p *localDcPolicy) Init(*gocql.Session) {}
