package crdt

// present reports membership for an element with the given addition vector.
// added must not be nil. A removal that causally follows the addition hides
// the element; a concurrent removal does not (add wins).
func present(added, removed VersionVector) bool {
	if removed == nil {
		return true
	}
	return added.Compare(removed) != Less
}

// effectiveOf is the newest of the two vectors, or their join when they are
// concurrent so that the next local write dominates both.
func effectiveOf(added, removed VersionVector) VersionVector {
	switch added.Compare(removed) {
	case Less:
		return removed
	case Greater, Equal:
		return added
	default:
		return added.Merge(removed)
	}
}

// mergeElement resolves one element present on a local and a remote replica.
// nil vectors stand for operations the replica never observed. The returned
// vectors never alias the remote ones.
func mergeElement(localAdded, localRemoved, remoteAdded, remoteRemoved VersionVector) (VersionVector, VersionVector) {
	localKnown := localAdded != nil || localRemoved != nil
	remoteKnown := remoteAdded != nil || remoteRemoved != nil

	switch {
	case !remoteKnown:
		return localAdded, localRemoved
	case !localKnown:
		return cloneVector(remoteAdded), cloneVector(remoteRemoved)
	}

	localEff := effectiveVector(localAdded, localRemoved)
	remoteEff := effectiveVector(remoteAdded, remoteRemoved)

	switch localEff.Compare(remoteEff) {
	case Equal, Greater:
		// remote history is already contained in ours
		return localAdded, localRemoved
	case Less:
		return cloneVector(remoteAdded), cloneVector(remoteRemoved)
	}

	// Concurrent histories: keep every addition and every removal either side
	// saw. present() then keeps the element unless some removal observed all
	// additions.
	return joinVectors(localAdded, remoteAdded), joinVectors(localRemoved, remoteRemoved)
}

func effectiveVector(added, removed VersionVector) VersionVector {
	switch {
	case added == nil:
		return removed
	case removed == nil:
		return added
	}
	return effectiveOf(added, removed)
}

func joinVectors(a, b VersionVector) VersionVector {
	switch {
	case a == nil:
		return cloneVector(b)
	case b == nil:
		return cloneVector(a)
	}
	return a.Merge(b)
}

func cloneVector(v VersionVector) VersionVector {
	if v == nil {
		return nil
	}
	return v.Clone()
}
