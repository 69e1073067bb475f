// Package service implements the ledger's consistency engine and balance
// calculator on top of the store interfaces.
//
// Every relationship in the record graph is mutated only through the
// paired operations exposed here: creating an expense registers the
// payer, adding a member updates both the group's member view and the
// user's group view, recording a settlement binds both endpoints. The
// services never expose raw collection mutation, so a one-sided update
// is not expressible by callers.
//
// Destructive operations cascade explicitly: deleting a user removes, in
// one transaction, the groups they own (with those groups' expenses and
// shares), the expenses they paid anywhere, the shares they owe, the
// settlements they sent or received, and their memberships. A failure at
// any step rolls the whole cascade back.
package service
